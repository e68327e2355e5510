package domain

// StepDef describes one named stage of a configured command pipeline.
// Steps without dependencies consume the input snapshot; the others consume
// the outputs of their dependencies in declaration order.
type StepDef struct {
	Name        InternedString
	Command     []string
	Environment map[string]string
	WorkingDir  InternedString
	DependsOn   []InternedString
	// Emit names the artifact written from this step's output, if any.
	Emit string
}

// Project is a loaded reuse.yaml: the pipeline under test and how to analyze it.
type Project struct {
	Name     string
	Root     string
	Tracking bool
	Inputs   []string
	Analysis AnalysisConfig
	Steps    *StepGraph
}
