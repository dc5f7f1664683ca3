// Package main is the spicyid command line tool for encoding, decoding and
// inspecting prefixed identifiers.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/urfave/cli/v2"

	"github.com/spicyid/spicyid/pkg/spicyid"
)

// Version is overridden at build time.
var Version = "dev"

func main() {
	if err := newApp(os.Stdout, os.Stderr).Run(os.Args); err != nil {
		os.Exit(exitCode(err, os.Stderr))
	}
}

// exitCode reports err on stderr and picks the process exit status.
func exitCode(err error, stderr io.Writer) int {
	if msg := err.Error(); msg != "" {
		fmt.Fprintf(stderr, "error: %s\n", msg)
	}
	var ec cli.ExitCoder
	if errors.As(err, &ec) {
		return ec.ExitCode()
	}
	return 1
}

func newApp(stdout, stderr io.Writer) *cli.App {
	return &cli.App{
		Name:                   "spicyid",
		Usage:                  "Encode and decode prefixed integer identifiers",
		Version:                Version,
		Writer:                 stdout,
		ErrWriter:              stderr,
		UseShortOptionHandling: true,
		ExitErrHandler:         func(*cli.Context, error) {},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "prefix",
				Aliases:  []string{"p"},
				Usage:    "Identifier prefix (letter followed by letters or digits)",
				EnvVars:  []string{"SPICY_PREFIX"},
				Required: true,
			},
			&cli.StringFlag{
				Name:    "sep",
				Usage:   "Separator between prefix and payload",
				EnvVars: []string{"SPICY_SEPARATOR"},
				Value:   spicyid.DefaultSeparator,
			},
			&cli.StringFlag{
				Name:    "encoding",
				Aliases: []string{"e"},
				Usage:   "Payload alphabet: hex, b58 or b62",
				EnvVars: []string{"SPICY_ENCODING"},
				Value:   string(spicyid.DefaultEncoding),
			},
			&cli.IntFlag{
				Name:    "bits",
				Aliases: []string{"b"},
				Usage:   "Signed storage width: 16, 32 or 64",
				EnvVars: []string{"SPICY_BITS"},
				Value:   spicyid.DefaultBits,
			},
			&cli.BoolFlag{
				Name:    "pad",
				Usage:   "Left-pad payloads to full width",
				EnvVars: []string{"SPICY_PAD"},
			},
			&cli.BoolFlag{
				Name:    "json",
				Aliases: []string{"j"},
				Usage:   "Output as JSON",
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "encode",
				Aliases:   []string{"enc"},
				Usage:     "Encode integers as identifiers",
				ArgsUsage: "N [N...]",
				Action:    encodeCommand,
			},
			{
				Name:      "decode",
				Aliases:   []string{"dec"},
				Usage:     "Decode identifiers to integers",
				ArgsUsage: "ID [ID...]",
				Action:    decodeCommand,
			},
			{
				Name:      "valid",
				Usage:     "Check identifiers, exiting non-zero if any is invalid",
				ArgsUsage: "ID [ID...]",
				Action:    validCommand,
			},
			{
				Name:  "pattern",
				Usage: "Print the regular expression identifiers match",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:    "anchored",
						Aliases: []string{"a"},
						Usage:   "Wrap the pattern in ^ and $",
					},
				},
				Action: patternCommand,
			},
			{
				Name:  "random",
				Usage: "Generate random identifiers",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:    "count",
						Aliases: []string{"n"},
						Usage:   "Number of identifiers",
						Value:   1,
					},
				},
				Action: randomCommand,
			},
		},
	}
}

// fieldFromFlags builds the field described by the global flags.
func fieldFromFlags(c *cli.Context, randomize bool) (*spicyid.Field, error) {
	encoding, err := spicyid.ParseEncoding(c.String("encoding"))
	if err != nil {
		return nil, err
	}
	return spicyid.New(spicyid.Config{
		Prefix:    c.String("prefix"),
		Separator: c.String("sep"),
		Encoding:  encoding,
		Bits:      c.Int("bits"),
		Pad:       c.Bool("pad"),
		Randomize: randomize,
	})
}

type result struct {
	Input string `json:"input"`
	ID    string `json:"id,omitempty"`
	Value *int64 `json:"value,omitempty"`
	Valid *bool  `json:"valid,omitempty"`
}

func writeResults(c *cli.Context, results []result, plain func(result) string) error {
	if c.Bool("json") {
		enc := json.NewEncoder(c.App.Writer)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}
	for _, r := range results {
		fmt.Fprintln(c.App.Writer, plain(r))
	}
	return nil
}

func requireArgs(c *cli.Context) error {
	if c.NArg() == 0 {
		return cli.Exit(fmt.Sprintf("%s: at least one argument required", c.Command.Name), 2)
	}
	return nil
}

func encodeCommand(c *cli.Context) error {
	if err := requireArgs(c); err != nil {
		return err
	}
	field, err := fieldFromFlags(c, false)
	if err != nil {
		return cli.Exit(err.Error(), 2)
	}

	results := make([]result, 0, c.NArg())
	for _, arg := range c.Args().Slice() {
		n, err := strconv.ParseInt(arg, 10, 64)
		if err != nil {
			return cli.Exit(fmt.Sprintf("%q is not a base-10 integer", arg), 1)
		}
		if !field.InRange(n) {
			return cli.Exit(fmt.Errorf("%w: %d not in [0, %d]", spicyid.ErrOutOfRange, n, field.MaxValue()).Error(), 1)
		}
		results = append(results, result{Input: arg, ID: field.Encode(n)})
	}
	return writeResults(c, results, func(r result) string { return r.ID })
}

func decodeCommand(c *cli.Context) error {
	if err := requireArgs(c); err != nil {
		return err
	}
	field, err := fieldFromFlags(c, false)
	if err != nil {
		return cli.Exit(err.Error(), 2)
	}

	results := make([]result, 0, c.NArg())
	for _, arg := range c.Args().Slice() {
		n, err := field.Decode(arg)
		if err != nil {
			return cli.Exit(err.Error(), 1)
		}
		if !field.InRange(n) {
			return cli.Exit(fmt.Errorf("%w: %q decodes to %d", spicyid.ErrOutOfRange, arg, n).Error(), 1)
		}
		results = append(results, result{Input: arg, Value: &n})
	}
	return writeResults(c, results, func(r result) string { return strconv.FormatInt(*r.Value, 10) })
}

func validCommand(c *cli.Context) error {
	if err := requireArgs(c); err != nil {
		return err
	}
	field, err := fieldFromFlags(c, false)
	if err != nil {
		return cli.Exit(err.Error(), 2)
	}

	allValid := true
	results := make([]result, 0, c.NArg())
	for _, arg := range c.Args().Slice() {
		ok := field.Valid(arg)
		allValid = allValid && ok
		results = append(results, result{Input: arg, Valid: &ok})
	}
	if err := writeResults(c, results, func(r result) string {
		return fmt.Sprintf("%s\t%t", r.Input, *r.Valid)
	}); err != nil {
		return err
	}
	if !allValid {
		return cli.Exit("", 1)
	}
	return nil
}

func patternCommand(c *cli.Context) error {
	field, err := fieldFromFlags(c, false)
	if err != nil {
		return cli.Exit(err.Error(), 2)
	}
	pattern := field.Pattern()
	if c.Bool("anchored") {
		pattern = field.Regexp().String()
	}
	fmt.Fprintln(c.App.Writer, pattern)
	return nil
}

func randomCommand(c *cli.Context) error {
	count := c.Int("count")
	if count < 1 {
		return cli.Exit("count must be at least 1", 2)
	}
	field, err := fieldFromFlags(c, true)
	if err != nil {
		return cli.Exit(err.Error(), 2)
	}

	results := make([]result, 0, count)
	for i := 0; i < count; i++ {
		n, err := field.NextDefault()
		if err != nil {
			return err
		}
		id := field.Encode(n)
		results = append(results, result{Input: id, ID: id, Value: &n})
	}
	return writeResults(c, results, func(r result) string { return r.ID })
}
