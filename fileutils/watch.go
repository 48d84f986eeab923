package fileutils

import (
	"context"
)

// WatchFiles checks the files listed by paths on every tick and emits the path
// of each file whose content changed. The list is read again on every tick; a
// path seen for the first time is only recorded. Files that cannot be read are
// reported to onErr and keep their last known content.
func WatchFiles(ctx context.Context, paths func() []string, ticker <-chan struct{}, onErr func(err error)) <-chan string {
	ch := make(chan string)
	hashes := make(map[string]uint64)

	check := func(notify bool) []string {
		changed := []string{}
		for _, path := range paths() {
			newHash, err := ComputeFileHash(path)
			if err != nil {
				onErr(err)
				continue
			}
			lastHash, seen := hashes[path]
			hashes[path] = newHash
			if notify && seen && lastHash != newHash {
				changed = append(changed, path)
			}
		}
		return changed
	}
	check(false)

	go func() {
		defer close(ch)
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-ticker:
				if !ok {
					return
				}
				for _, path := range check(true) {
					select {
					case ch <- path:
					case <-ctx.Done():
						return
					}
				}
			}
		}
	}()

	return ch
}
