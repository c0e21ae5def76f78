package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/hupe1980/vtkconverter"
)

// lastRef names the tally produced by the most recent transform step.
const lastRef = "@last"

// Job is a batch of steps executed in order against one Converter.
type Job struct {
	Scale  *float64 `yaml:"scale"`
	Safety *float64 `yaml:"safety"`
	Out    string   `yaml:"out"`
	Open   []string `yaml:"open"`
	Steps  []Step   `yaml:"steps"`
}

// Step holds exactly one operation.
type Step struct {
	Translate *MoveStep  `yaml:"translate"`
	Rotate    *MoveStep  `yaml:"rotate"`
	Joint     *JointStep `yaml:"joint"`
	Write     *WriteStep `yaml:"write"`
	Save      *SaveStep  `yaml:"save"`
	Stats     *StatsStep `yaml:"stats"`
	Scale     *float64   `yaml:"scale"`
	Safety    *float64   `yaml:"safety"`
}

// MoveStep translates by or rotates by (degrees) the three values of By.
type MoveStep struct {
	Mesh string     `yaml:"mesh"`
	By   [3]float64 `yaml:"by"`
}

// JointStep merges B into A.
type JointStep struct {
	A string `yaml:"a"`
	B string `yaml:"b"`
}

// WriteStep exports Fields of Mesh in Format.
type WriteStep struct {
	Mesh   string   `yaml:"mesh"`
	Fields []string `yaml:"fields"`
	Format string   `yaml:"format"`
}

// SaveStep saves Mesh as a VTK file in Mode (binary or ascii).
type SaveStep struct {
	Mesh string `yaml:"mesh"`
	Mode string `yaml:"mode"`
}

// StatsStep prints the aggregates of Fields.
type StatsStep struct {
	Mesh   string   `yaml:"mesh"`
	Fields []string `yaml:"fields"`
}

func (s Step) count() int {
	n := 0
	for _, set := range []bool{
		s.Translate != nil, s.Rotate != nil, s.Joint != nil, s.Write != nil,
		s.Save != nil, s.Stats != nil, s.Scale != nil, s.Safety != nil,
	} {
		if set {
			n++
		}
	}
	return n
}

// LoadJob reads and validates a YAML job file. Relative paths inside the job
// are resolved against the directory of the job file.
func LoadJob(path string) (*Job, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read job: %w", err)
	}

	var job Job
	if err := yaml.Unmarshal(b, &job); err != nil {
		return nil, fmt.Errorf("parse job %s: %w", path, err)
	}

	for i, s := range job.Steps {
		if s.count() != 1 {
			return nil, fmt.Errorf("job %s: step %d must hold exactly one operation", path, i+1)
		}
	}

	base := filepath.Dir(path)
	resolve := func(p string) string {
		if p == "" || p == lastRef || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(base, p)
	}
	if job.Out != "" {
		job.Out = resolve(job.Out)
	}
	for i := range job.Open {
		job.Open[i] = resolve(job.Open[i])
	}
	for _, s := range job.Steps {
		switch {
		case s.Translate != nil:
			s.Translate.Mesh = resolve(s.Translate.Mesh)
		case s.Rotate != nil:
			s.Rotate.Mesh = resolve(s.Rotate.Mesh)
		case s.Joint != nil:
			s.Joint.A, s.Joint.B = resolve(s.Joint.A), resolve(s.Joint.B)
		case s.Write != nil:
			s.Write.Mesh = resolve(s.Write.Mesh)
		case s.Save != nil:
			s.Save.Mesh = resolve(s.Save.Mesh)
		case s.Stats != nil:
			s.Stats.Mesh = resolve(s.Stats.Mesh)
		}
	}
	return &job, nil
}

// jobRunner executes the steps of a job, tracking the last derived tally.
type jobRunner struct {
	c    *vtkconverter.Converter
	w    io.Writer
	last string
}

func (r *jobRunner) ref(name string) (string, error) {
	if name != lastRef {
		return name, nil
	}
	if r.last == "" {
		return "", errors.New(lastRef + " used before any transform step")
	}
	return r.last, nil
}

func (r *jobRunner) run(ctx context.Context, job *Job) error {
	if err := open(ctx, r.c, job.Open...); err != nil {
		return err
	}
	for i, s := range job.Steps {
		if err := r.step(ctx, s); err != nil {
			return fmt.Errorf("step %d: %w", i+1, err)
		}
	}
	return nil
}

func (r *jobRunner) step(ctx context.Context, s Step) error {
	switch {
	case s.Scale != nil:
		r.c.SetScaleFactor(*s.Scale)
		return nil
	case s.Safety != nil:
		r.c.SetSafetyFactor(*s.Safety)
		return nil
	case s.Translate != nil, s.Rotate != nil:
		move, translate := s.Translate, true
		if move == nil {
			move, translate = s.Rotate, false
		}
		name, err := r.ref(move.Mesh)
		if err != nil {
			return err
		}
		if err := open(ctx, r.c, name); err != nil {
			return err
		}
		apply := r.c.Rotate
		if translate {
			apply = r.c.Translate
		}
		res, err := apply(ctx, name, move.By[0], move.By[1], move.By[2])
		if err != nil {
			return err
		}
		r.last = res.Name
		fmt.Fprintf(r.w, "Mesh %s created (%s)\n", res.Name, res.Kind)
		return nil
	case s.Joint != nil:
		a, err := r.ref(s.Joint.A)
		if err != nil {
			return err
		}
		b, err := r.ref(s.Joint.B)
		if err != nil {
			return err
		}
		if err := open(ctx, r.c, a, b); err != nil {
			return err
		}
		res, err := r.c.Joint(ctx, a, b)
		if err != nil {
			return err
		}
		r.last = res.Name
		fmt.Fprintf(r.w, "Mesh %s created (%s)\n", res.Name, res.Kind)
		return nil
	case s.Write != nil:
		name, err := r.ref(s.Write.Mesh)
		if err != nil {
			return err
		}
		if err := open(ctx, r.c, name); err != nil {
			return err
		}
		paths, err := r.c.Write(ctx, name, s.Write.Fields, s.Write.Format)
		if err != nil {
			return err
		}
		for _, p := range paths {
			fmt.Fprintf(r.w, "File %s created\n", p)
		}
		return nil
	case s.Save != nil:
		name, err := r.ref(s.Save.Mesh)
		if err != nil {
			return err
		}
		if err := r.c.Save(ctx, name, s.Save.Mode); err != nil {
			return err
		}
		fmt.Fprintf(r.w, "File %s saved\n", name)
		return nil
	default:
		name, err := r.ref(s.Stats.Mesh)
		if err != nil {
			return err
		}
		if err := open(ctx, r.c, name); err != nil {
			return err
		}
		for _, field := range s.Stats.Fields {
			st, err := r.c.Describe(name, field)
			if err != nil {
				return err
			}
			printStats(r.w, st)
		}
		return nil
	}
}

func runCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "run JOB.yaml",
		Short: "Execute a YAML job of transform, export and save steps",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			job, err := LoadJob(args[0])
			if err != nil {
				return err
			}

			out := g.out
			if job.Out != "" {
				out = job.Out
			}
			c, err := g.converter(out)
			if err != nil {
				return err
			}
			if job.Scale != nil {
				c.SetScaleFactor(*job.Scale)
			}
			if job.Safety != nil {
				c.SetSafetyFactor(*job.Safety)
			}

			done := g.logger.WithContext("job", args[0]).StartTimer("run")
			defer done()

			r := &jobRunner{c: c, w: cmd.OutOrStdout()}
			return r.run(cmd.Context(), job)
		},
	}
}
