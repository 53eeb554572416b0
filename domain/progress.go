package domain

// ProgressManager reports progress for long-running operations (a bundle's
// multi-file load, in this codebase) to an interactive terminal, or is a
// no-op in non-TTY contexts. Kept as an interface so callers never depend on
// whether a real progress bar is backing it.
type ProgressManager interface {
	StartTask(description string, total int) TaskProgress
	IsInteractive() bool
	Close()
}

// TaskProgress tracks one StartTask call's progress.
type TaskProgress interface {
	Increment(n int)
	Describe(description string)
	Complete()
}
