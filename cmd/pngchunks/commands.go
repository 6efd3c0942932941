package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/containerd/log"
	"github.com/opencontainers/go-digest"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/adpollak/pngchunk/internal/chunk"
)

// stdinPath names standard input in place of a file.
const stdinPath = "-"

func newLsCmd() *cobra.Command {
	var (
		withDigest bool
		jobs       int
		types      []string
	)

	cmd := &cobra.Command{
		Use:   "ls FILE...",
		Short: "List the chunks of each file after verifying every CRC ('-' reads stdin)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if jobs < 1 {
				return fmt.Errorf("--jobs must be at least 1, got %d", jobs)
			}
			keep, err := typeFilter(cmd.Context(), types)
			if err != nil {
				return err
			}
			results, err := parseFiles(cmd.Context(), cmd.InOrStdin(), args, jobs)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for i, path := range args {
				if len(args) > 1 {
					fmt.Fprintf(w, "%s:\n", path)
				}
				header := "#\tTYPE\tLENGTH\tCRC\tPROPERTIES\tDESCRIPTION"
				if withDigest {
					header += "\tDIGEST"
				}
				fmt.Fprintln(w, header)
				for j, c := range results[i] {
					if !keep(c.Type) {
						continue
					}
					fmt.Fprintf(w, "%d\t%s\t%d\t%08x\t%s\t%s", j, c.Type, c.Length, c.CRC, properties(c.Type), c.Type.Describe())
					if withDigest {
						fmt.Fprintf(w, "\t%s", shortDigest(c.Data))
					}
					fmt.Fprintln(w)
				}
			}
			return w.Flush()
		},
	}
	cmd.Flags().BoolVar(&withDigest, "digest", false, "Show a sha256 digest of each chunk's data")
	cmd.Flags().IntVarP(&jobs, "jobs", "j", 4, "Number of files to parse at once")
	cmd.Flags().StringSliceVarP(&types, "type", "t", nil, "Only list chunks of these types (e.g. IDAT,tEXt)")

	return cmd
}

func newHeaderCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "header FILE",
		Short: "Print the IHDR fields of a file ('-' reads stdin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			chunks, err := readChunks(cmd.Context(), cmd.InOrStdin(), path)
			if err != nil {
				return err
			}
			hdr, err := chunk.Header(chunks)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			log.G(cmd.Context()).WithField("file", path).WithField("ihdr", hdr.String()).Debug("decoded IHDR")

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 1, ' ', 0)
			fmt.Fprintf(w, "Width:\t%d\n", hdr.Width)
			fmt.Fprintf(w, "Height:\t%d\n", hdr.Height)
			fmt.Fprintf(w, "Bit depth:\t%d\n", hdr.BitDepth)
			fmt.Fprintf(w, "Color type:\t%d (%s)\n", hdr.ColorType, chunk.ColorTypeName(hdr.ColorType))
			fmt.Fprintf(w, "Compression:\t%d\n", hdr.CompressionMethod)
			fmt.Fprintf(w, "Filter:\t%d\n", hdr.FilterMethod)
			fmt.Fprintf(w, "Interlace:\t%d\n", hdr.InterlaceMethod)
			fmt.Fprintf(w, "Interlaced:\t%t\n", hdr.Interlaced())
			return w.Flush()
		},
	}
}

func newIdatCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "idat FILE",
		Short: "Write the concatenated, still-compressed IDAT data of a file ('-' reads stdin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			chunks, err := readChunks(cmd.Context(), cmd.InOrStdin(), path)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return err
				}
				defer f.Close()
				out = f
			}
			n, err := chunk.WriteImageData(out, chunks)
			if err != nil {
				return err
			}
			log.G(cmd.Context()).WithField("file", path).WithField("bytes", n).Debug("wrote IDAT data")
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to this file instead of stdout")

	return cmd
}

func newSizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "size FILE...",
		Short: "Print width and height read straight from the IHDR, without checking CRCs",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, path := range args {
				b, err := os.ReadFile(path)
				if err != nil {
					return err
				}
				width, height, err := chunk.Dimensions(b)
				if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%dx%d\n", path, width, height)
			}
			return nil
		},
	}
}

// readChunks parses one input. Files are validated once and then walked on
// the trusted path; stdin is parsed as it is read.
func readChunks(ctx context.Context, stdin io.Reader, path string) ([]chunk.Chunk, error) {
	var chunks []chunk.Chunk
	if path == stdinPath {
		var err error
		if chunks, err = chunk.ParseReader(stdin); err != nil {
			return nil, fmt.Errorf("stdin: %w", err)
		}
	} else {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		trusted, err := chunk.Validate(b)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		chunks = chunk.ParseTrusted(trusted)
		log.G(ctx).WithField("file", path).WithField("bytes", trusted.Len()).Debug("validated")
	}
	log.G(ctx).WithField("file", path).WithField("chunks", len(chunks)).Debug("parsed")
	for _, c := range chunks {
		log.G(ctx).WithField("file", path).WithField("chunk", c.String()).Trace("chunk")
	}
	return chunks, nil
}

// parseFiles parses paths concurrently, at most jobs at a time. The results
// are in the same order as paths.
func parseFiles(ctx context.Context, stdin io.Reader, paths []string, jobs int) ([][]chunk.Chunk, error) {
	stdinSeen := false
	for _, path := range paths {
		if path == stdinPath {
			if stdinSeen {
				return nil, fmt.Errorf("stdin given more than once")
			}
			stdinSeen = true
		}
	}

	results := make([][]chunk.Chunk, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)

	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			chunks, err := readChunks(ctx, stdin, path)
			if err != nil {
				return err
			}
			results[i] = chunks
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// typeFilter returns a predicate accepting the given chunk types, or every
// type when names is empty.
func typeFilter(ctx context.Context, names []string) (func(chunk.Type) bool, error) {
	if len(names) == 0 {
		return func(chunk.Type) bool { return true }, nil
	}
	want := make(map[chunk.Type]bool, len(names))
	for _, name := range names {
		typ, err := chunk.ParseType(name)
		if err != nil {
			return nil, err
		}
		if !typ.Known() {
			log.G(ctx).WithField("type", name).Warn("not a registered chunk type")
		}
		want[typ] = true
	}
	return func(t chunk.Type) bool { return want[t] }, nil
}

// properties spells out the property bits carried by the case of a type.
func properties(t chunk.Type) string {
	props := []string{"ancillary"}
	if t.IsCritical() {
		props[0] = "critical"
	}
	if t.IsPublic() {
		props = append(props, "public")
	} else {
		props = append(props, "private")
	}
	if !t.ReservedBitValid() {
		props = append(props, "reserved-bit-set")
	}
	if t.IsSafeToCopy() {
		props = append(props, "safe-to-copy")
	} else {
		props = append(props, "unsafe-to-copy")
	}
	return strings.Join(props, ",")
}

func shortDigest(data []byte) string {
	return digest.FromBytes(data).Encoded()[:12]
}
