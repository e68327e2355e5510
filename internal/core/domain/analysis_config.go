package domain

// AnalysisConfig holds the host-specific knobs of a caching check.
type AnalysisConfig struct {
	// ForbiddenTypes are type names that must never be reachable from cached step outputs.
	ForbiddenTypes []string
	// SafeTypes are type names the scanner treats as leaves.
	SafeTypes []string
	// InfrastructureSteps are case-insensitive substrings of sink step names.
	InfrastructureSteps []string
	// InfrastructureFiles are case-insensitive substrings of scaffolding artifact names.
	InfrastructureFiles []string
	// Parallelism bounds how many steps are scanned at once.
	Parallelism int
}

// DefaultAnalysisConfig returns the defaults used when reuse.yaml omits analysis settings.
func DefaultAnalysisConfig() AnalysisConfig {
	return AnalysisConfig{
		ForbiddenTypes: []string{
			"*host.Session",
			"*host.SemanticModel",
			"*host.SyntaxTree",
			"*host.Compilation",
		},
		InfrastructureSteps: []string{
			"RegisterSourceOutput",
			"RegisterImplementationSourceOutput",
			"RegisterPostInitializationOutput",
			"SourceOutput",
		},
		InfrastructureFiles: []string{
			".Attributes.g.",
			".g.i.",
			"EmbeddedAttribute",
		},
		Parallelism: 4,
	}
}

// WithDefaults fills empty fields from DefaultAnalysisConfig.
func (c AnalysisConfig) WithDefaults() AnalysisConfig {
	def := DefaultAnalysisConfig()
	if len(c.ForbiddenTypes) == 0 {
		c.ForbiddenTypes = def.ForbiddenTypes
	}
	if len(c.InfrastructureSteps) == 0 {
		c.InfrastructureSteps = def.InfrastructureSteps
	}
	if len(c.InfrastructureFiles) == 0 {
		c.InfrastructureFiles = def.InfrastructureFiles
	}
	if c.Parallelism <= 0 {
		c.Parallelism = def.Parallelism
	}
	return c
}
