package vcs

// VisualStudioCommandBuilder implements CommandBuilder for tf.exe from Visual
// Studio. Its syntax matches Team Explorer Everywhere except that there is no
// license step and the banner is printed by "tf" alone.
type VisualStudioCommandBuilder struct {
	TFCommandBuilder
}

func (b *VisualStudioCommandBuilder) AcceptEULA() (Command, bool) {
	return Command{}, false
}

func (b *VisualStudioCommandBuilder) Version() Command {
	return Command{Name: b.target.ToolPath, Subcommand: "", Args: []string{}}
}
