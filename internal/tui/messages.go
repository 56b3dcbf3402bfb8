package tui

// RowUpdateMsg sets fields on one progress row. Key matches the key given to
// AddRow; the build command uses build.Step.Key values ("d:configure").
// Fields are keyed by column header, e.g. "STATUS".
type RowUpdateMsg struct {
	Key    string
	Fields map[string]string
}

// WorkDoneMsg is sent once every build step has finished.
type WorkDoneMsg struct{}

// ErrorMsg carries the first failing step's error and stops the program.
type ErrorMsg struct {
	Err error
}
