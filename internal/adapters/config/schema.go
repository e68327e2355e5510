package config

// Reusefile represents the structure of the reuse.yaml configuration file.
type Reusefile struct {
	Version  string             `yaml:"version"`
	Pipeline string             `yaml:"pipeline"`
	Tracking *bool              `yaml:"tracking"`
	Analysis AnalysisDTO        `yaml:"analysis"`
	Inputs   []string           `yaml:"inputs"`
	Steps    map[string]StepDTO `yaml:"steps"`
}

// AnalysisDTO represents the analysis section of reuse.yaml.
type AnalysisDTO struct {
	ForbiddenTypes      []string `yaml:"forbiddenTypes"`
	SafeTypes           []string `yaml:"safeTypes"`
	InfrastructureSteps []string `yaml:"infrastructureSteps"`
	InfrastructureFiles []string `yaml:"infrastructureFiles"`
	Parallelism         int      `yaml:"parallelism"`
}

// StepDTO represents a step definition in the configuration.
type StepDTO struct {
	Cmd         []string          `yaml:"cmd"`
	DependsOn   []string          `yaml:"dependsOn"`
	Emit        string            `yaml:"emit"`
	Environment map[string]string `yaml:"environment"`
	WorkingDir  string            `yaml:"workingDir"`
}
