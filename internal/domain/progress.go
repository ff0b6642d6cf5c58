package domain

// ProgressFunc reports how many items of a multi-page listing have loaded.
// Called once per page: (10, 42), (20, 42), ...
type ProgressFunc func(loaded, total int)
