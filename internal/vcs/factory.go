package vcs

// Client flavors.
const (
	// FlavorEverywhere is the cross-platform Team Explorer Everywhere client.
	FlavorEverywhere = "tee"
	// FlavorVisualStudio is tf.exe shipped with Visual Studio.
	FlavorVisualStudio = "vs"
)

// NewCommandBuilder returns a CommandBuilder for the given client flavor.
// Defaults to Team Explorer Everywhere if flavor is empty or unrecognized.
func NewCommandBuilder(flavor string, target Target) CommandBuilder {
	if target.ToolPath == "" {
		target.ToolPath = "tf"
	}
	switch flavor {
	case FlavorVisualStudio:
		return &VisualStudioCommandBuilder{TFCommandBuilder{target: target}}
	default:
		return &TFCommandBuilder{target: target}
	}
}
