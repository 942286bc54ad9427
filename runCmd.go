package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	json "github.com/KevinWang15/go-json5"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/bob-anderson-ok/layeredem/model"
	"github.com/bob-anderson-ok/layeredem/report"
)

// resultFile is the YAML document written after a run.
type resultFile struct {
	Run      string    `yaml:"run"`
	Title    string    `yaml:"title,omitempty"`
	Routine  string    `yaml:"routine"`
	Signal   string    `yaml:"signal"`
	Shape    []int     `yaml:"shape,flow"`
	FreqTime []float64 `yaml:"freqtime,flow"`
	Real     []float64 `yaml:"real,flow"`
	Imag     []float64 `yaml:"imag,flow"`
}

func newRunCommand(root *rootOptions) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "run <parameter-file>",
		Short: "Compute the response described by a json5 parameter file",
		Long: `Compute the response described by a json5 parameter file.

The result is written as YAML to the file given by --output, or by the
"output" key of the parameter file, or to stdout. The text report of the
computation goes to stderr at the verbosity given by "verb".`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSurvey(cmd, root, args[0], output)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "result file (default: the output key, else stdout)")
	return cmd
}

func readSurvey(path string) (*Survey, []byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, commandError("attempt to read parameter file %q failed: %w", path, err)
	}
	var jsonTable map[string]interface{}
	if err := json.Unmarshal(data, &jsonTable); err != nil {
		return nil, nil, commandError("error in parameter file %q: %w", path, err)
	}
	s := &Survey{}
	if msg, ok := validateJsonFileAndFillSurvey(jsonTable, s); !ok {
		return nil, nil, commandError("%s: %s", path, msg)
	}
	return s, data, nil
}

func runSurvey(cmd *cobra.Command, root *rootOptions, path, output string) error {
	s, data, err := readSurvey(path)
	if err != nil {
		return err
	}
	if s.ShowInput {
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n", data)
	}

	logger, err := root.logger()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	runID := uuid.NewString()
	logger = logger.With(zap.String("run", runID), zap.String("file", path))
	s.Options.Reporter = report.Multi(
		report.NewTextReporter(cmd.ErrOrStderr(), s.Verb),
		report.ZapReporter{Logger: logger},
	)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	logger.Info("computation started", zap.String("routine", s.Routine), zap.Int("ab", s.AB))
	res, err := compute(ctx, s)
	if err != nil {
		var pe *model.ParameterError
		if errors.As(err, &pe) {
			return &exitError{code: exitCommandError, err: err}
		}
		return err
	}
	logger.Info("computation finished", zap.Ints("shape", res.Shape()))

	if output == "" {
		output = s.Output
	}
	if err := writeResult(cmd.OutOrStdout(), output, resultFile{
		Run:      runID,
		Title:    s.Title,
		Routine:  s.Routine,
		Signal:   s.Options.Signal.String(),
		Shape:    res.Shape(),
		FreqTime: s.Options.FreqTime,
		Real:     res.Real(),
		Imag:     res.Imag(),
	}); err != nil {
		return err
	}

	if s.Plot.File != "" {
		if err := makeSoundingPlot(s, res); err != nil {
			return err
		}
		logger.Info("plot written", zap.String("plot", s.Plot.File))
	}
	return nil
}

// compute dispatches the survey to its modelling routine.
func compute(ctx context.Context, s *Survey) (*model.Result, error) {
	switch s.Routine {
	case "bipole", "loop":
		src, err := model.ParseGeometry("src", s.Src)
		if err != nil {
			return nil, err
		}
		rec, err := model.ParseGeometry("rec", s.Rec)
		if err != nil {
			return nil, err
		}
		if s.Routine == "loop" {
			return model.Loop(ctx, src, rec, s.Options)
		}
		return model.Bipole(ctx, src, rec, s.Options)
	}

	src, err := model.ParsePoints("src", s.Src)
	if err != nil {
		return nil, err
	}
	rec, err := model.ParsePoints("rec", s.Rec)
	if err != nil {
		return nil, err
	}
	switch s.Routine {
	case "analytical":
		return model.Analytical(ctx, src, rec, s.AB, s.Solution, s.Options)
	case "ipandq":
		ip, q, err := model.IPAndQ(ctx, src, rec, s.AB, s.Scale, s.Options)
		if err != nil {
			return nil, err
		}
		// In-phase as real part, quadrature as imaginary part.
		out := *ip
		out.Values = make([]complex128, len(ip.Values))
		for i := range out.Values {
			out.Values[i] = complex(real(ip.Values[i]), real(q.Values[i]))
		}
		return &out, nil
	case "gpr":
		return model.GPR(ctx, src, rec, s.AB, s.Cf, s.Gain, s.Options)
	}
	return model.Dipole(ctx, src, rec, s.AB, s.Options)
}

func writeResult(stdout io.Writer, filename string, r resultFile) (err error) {
	w := stdout
	if filename != "" {
		var f *os.File
		f, err = os.Create(filename)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", filename, err)
		}
		defer func() {
			if cerr := f.Close(); cerr != nil && err == nil {
				err = cerr
			}
		}()
		w = f
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(r); err != nil {
		return err
	}
	return enc.Close()
}
