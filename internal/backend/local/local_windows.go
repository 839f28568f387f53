package local

// fsyncDir is a no-op, directories cannot be synced on Windows.
func fsyncDir(string) error {
	return nil
}
