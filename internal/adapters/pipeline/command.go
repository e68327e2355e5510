package pipeline

import (
	"context"
	"strings"

	"go.trai.ch/reuse/internal/core/domain"
	"go.trai.ch/reuse/internal/core/ports"
)

// CommandStep adapts a configured step into an engine Step. The command
// reads its inputs as text on stdin; its stdout becomes the step's single
// output, keyed by the step name. A step without a command passes its input through.
func CommandStep(def domain.StepDef, executor ports.Executor) Step {
	deps := make([]string, len(def.DependsOn))
	for i, d := range def.DependsOn {
		deps[i] = d.String()
	}
	name := def.Name.String()

	return Step{
		Name:      name,
		DependsOn: deps,
		Emit:      def.Emit,
		Run: func(ctx context.Context, inputs []domain.StepOutput) ([]domain.StepOutput, error) {
			stdin := []byte(textOf(inputs))
			out := stdin
			if len(def.Command) > 0 {
				var err error
				out, err = executor.Execute(ctx, &def, stdin)
				if err != nil {
					return nil, err
				}
			}
			return []domain.StepOutput{{Key: name, Value: string(out)}}, nil
		},
	}
}

// LineStep splits the text of its inputs into one output per non-empty line,
// keyed by the line itself. Lines that disappear between runs are reported
// as removed.
func LineStep(name string, dependsOn ...string) Step {
	return Step{
		Name:      name,
		DependsOn: dependsOn,
		Run: func(_ context.Context, inputs []domain.StepOutput) ([]domain.StepOutput, error) {
			var outputs []domain.StepOutput
			for line := range strings.Lines(textOf(inputs)) {
				line = strings.TrimRight(line, "\r\n")
				if line == "" {
					continue
				}
				outputs = append(outputs, domain.StepOutput{Key: line, Value: line})
			}
			return outputs, nil
		},
	}
}
