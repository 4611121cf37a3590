// Command xzzpcb is the CLI driver for the XZZPCB decoder: the "thin
// driver" spec.md §6 describes, expanded per SPEC_FULL.md §9.3/§9.4 into
// a real Cobra command tree with a progress spinner and concurrent batch
// decoding.
//
// Grounded on hailam-genfile/cmd/cli/main.go's composition root: build
// the service objects up front, wire them into a cobra.Command, validate
// flags, run the core operation, report success/failure to the user.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/openboardview/xzzpcbgo/board"
	"github.com/openboardview/xzzpcbgo/diagnostics"
	"github.com/openboardview/xzzpcbgo/internal/config"
	"github.com/openboardview/xzzpcbgo/internal/httpapi"
	"github.com/openboardview/xzzpcbgo/internal/textenc"
	xzzpcb "github.com/openboardview/xzzpcbgo"
)

type fileResult struct {
	Path        string                   `json:"path"`
	Board       *xzzpcb.Board            `json:"board,omitempty"`
	Diagnostics []diagnostics.Diagnostic `json:"diagnostics"`
	TextGuesses []textGBKGuess           `json:"text_gbk_guess,omitempty"`
	Error       string                   `json:"error,omitempty"`
}

// textGBKGuess is one entry of the CLI-only GBK re-guess side-channel
// (SPEC_FULL.md §9.6): a candidate label/text string from the decoded
// Board, reinterpreted as GBK by internal/textenc. It never replaces the
// CORE string it was derived from, which stays the spec-mandated lossy
// UTF-8 value at its original location in Board.
type textGBKGuess struct {
	Field string `json:"field"`
	Guess string `json:"text_gbk_guess"`
}

// collectGBKGuesses walks every label/text field CORE decodes from raw
// bytes and, for each one textenc.GuessGBK can reinterpret, records the
// guess under a path-like field name identifying where it came from.
func collectGBKGuesses(b *board.Board) []textGBKGuess {
	if b == nil {
		return nil
	}
	var guesses []textGBKGuess
	add := func(field, s string) {
		if guess, ok := textenc.GuessGBK(s); ok {
			guesses = append(guesses, textGBKGuess{Field: field, Guess: guess})
		}
	}

	for i, e := range b.Entities {
		switch e.Kind {
		case board.KindText:
			if e.Text != nil {
				add(fmt.Sprintf("entities[%d].text.body", i), e.Text.Body)
			}
		case board.KindVia:
			if e.Via != nil {
				add(fmt.Sprintf("entities[%d].via.text", i), e.Via.Text)
			}
		case board.KindPart:
			if e.Part == nil {
				continue
			}
			add(fmt.Sprintf("entities[%d].part.header.group_name", i), e.Part.Header.GroupName)
			for j, sb := range e.Part.SubBlocks {
				switch sb.Kind {
				case board.KindPartLabel:
					if sb.Label != nil {
						add(fmt.Sprintf("entities[%d].part.sub_blocks[%d].label.label", i, j), sb.Label.Label)
					}
				case board.KindPinArray:
					if sb.PinArray != nil {
						for k, p := range sb.PinArray.Pins {
							add(fmt.Sprintf("entities[%d].part.sub_blocks[%d].pin_array.pins[%d].name", i, j, k), p.Name)
						}
					}
				}
			}
		}
	}
	return guesses
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "xzzpcb",
		Short: "Decode XZZPCB PCB layout files into JSON.",
		Long: `xzzpcb decodes one or more XZZPCB container files into a structured
JSON representation of the board's traces, vias, arcs, text, and parts.
It never edits or re-encodes the input, and never validates electrical
connectivity beyond passing net_index through unchanged.`,
	}

	root.AddCommand(newDecodeCommand())
	root.AddCommand(newServeCommand())
	return root
}

func newDecodeCommand() *cobra.Command {
	var (
		outputDir  string
		configPath string
		showSpin   bool
		indent     string
	)

	cmd := &cobra.Command{
		Use:   "decode <file> [files...]",
		Short: "Decode one or more XZZPCB files and emit JSON.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := defaultRunConfig()
			if configPath != "" {
				fileCfg, err := config.ParseFile(configPath)
				if err != nil {
					return err
				}
				cfg = *fileCfg
			}
			if outputDir != "" {
				cfg.OutputDir = outputDir
			}
			if indent != "" {
				cfg.JSONIndent = indent
			}

			var spin *spinner.Spinner
			if showSpin {
				spin = spinner.New(spinner.CharSets[14], 100*time.Millisecond)
				spin.Prefix = fmt.Sprintf("Decoding %d file(s)... ", len(args))
				spin.Start()
			}

			results := decodeBatch(cmd.Context(), args, cfg.Concurrency)

			if spin != nil {
				spin.Stop()
			}

			return emitResults(results, cfg)
		},
	}

	cmd.Flags().StringVar(&outputDir, "output-dir", "", "write one JSON file per input into this directory instead of stdout")
	cmd.Flags().StringVar(&configPath, "config", "", "path to a batch-decode YAML config file")
	cmd.Flags().BoolVar(&showSpin, "progress", false, "show a terminal spinner while decoding")
	cmd.Flags().StringVar(&indent, "indent", "", "JSON indent string (overrides config)")
	return cmd
}

func newServeCommand() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP board-inspection service.",
		RunE: func(cmd *cobra.Command, args []string) error {
			srv := httpapi.NewServer()
			fmt.Fprintf(cmd.OutOrStdout(), "listening on %s\n", addr)
			return http.ListenAndServe(addr, srv.Routes())
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:8080", "address to listen on")
	return cmd
}

func defaultRunConfig() config.BatchConfig {
	cfg, _ := config.Parse(nil)
	return *cfg
}

// decodeBatch decodes every path concurrently, bounded by maxConcurrency,
// exercising the "independent files decode independently on independent
// goroutines" guarantee of spec.md §5. One file's decode failure never
// affects another's result.
func decodeBatch(ctx context.Context, paths []string, maxConcurrency int) []fileResult {
	results := make([]fileResult, len(paths))
	sem := semaphore.NewWeighted(int64(maxConcurrency))
	g, gctx := errgroup.WithContext(ctx)

	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			if err := sem.Acquire(gctx, 1); err != nil {
				results[i] = fileResult{Path: path, Error: err.Error()}
				return nil
			}
			defer sem.Release(1)

			results[i] = decodeOne(path)
			return nil
		})
	}
	_ = g.Wait() // decodeOne never returns an error from g.Go; failures live in fileResult
	return results
}

func decodeOne(path string) fileResult {
	data, err := os.ReadFile(path)
	if err != nil {
		return fileResult{Path: path, Error: err.Error()}
	}
	b, diags := xzzpcb.Decode(data)
	return fileResult{Path: path, Board: b, Diagnostics: diags, TextGuesses: collectGBKGuesses(b)}
}

func emitResults(results []fileResult, cfg config.BatchConfig) error {
	if cfg.OutputDir == "" || cfg.OutputDir == "." {
		enc := json.NewEncoder(os.Stdout)
		if cfg.JSONIndent != "" {
			enc.SetIndent("", cfg.JSONIndent)
		}
		return enc.Encode(results)
	}

	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return err
	}
	for _, r := range results {
		out := filepath.Join(cfg.OutputDir, filepath.Base(r.Path)+".json")
		data, err := json.MarshalIndent(r, "", cfg.JSONIndent)
		if err != nil {
			return err
		}
		if err := os.WriteFile(out, data, 0o644); err != nil {
			return err
		}
	}
	return nil
}
