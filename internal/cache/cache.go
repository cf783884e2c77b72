/*
 * Copyright 2022 CloudWeGo Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/cloudwego/optir/internal/opt"
	"github.com/cloudwego/optir/internal/opts"
	"github.com/vmihailenco/msgpack/v5"
)

// SchemaVersion must be bumped whenever the layout of Entry changes, entries
// written with another version are treated as misses.
const SchemaVersion uint16 = 2

// Digest identifies an optimization result.
type Digest [sha256.Size]byte

func (d Digest) String() string {
	return hex.EncodeToString(d[:])
}

// Key derives the cache key from the module source and every option that
// affects the output.
func Key(src []byte, o *opts.Options) Digest {
	h := sha256.New()
	h.Write(src)
	fmt.Fprintf(h, "\x00rounds=%d,peephole=%t,constprop=%t", o.MaxRounds, o.Peephole, o.ConstProp)
	return Digest(h.Sum(nil))
}

// Entry is a cached optimization result.
type Entry struct {
	Schema uint16
	Module string
	Output string
	Trace  string
	Stats  opt.Stats
}

// Cache stores entries on disk, one file per key. It is safe for concurrent
// use.
type Cache struct {
	mu  sync.RWMutex
	dir string
}

// Open creates the cache rooted at dir. An empty dir selects optir under the
// user cache directory.
func Open(dir string) (*Cache, error) {
	if dir == "" {
		base := os.Getenv("XDG_CACHE_HOME")
		if base == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return nil, err
			}
			base = filepath.Join(home, ".cache")
		}
		dir = filepath.Join(base, "optir")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Cache{dir: dir}, nil
}

// Dir returns the root directory of the cache.
func (c *Cache) Dir() string {
	return c.dir
}

func (c *Cache) pathFor(key Digest) string {
	return filepath.Join(c.dir, "results", key.String()+".mp")
}

// Put writes e under key, replacing any previous entry atomically. The schema
// version is filled in.
func (c *Cache) Put(key Digest, e *Entry) (err error) {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err = os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}

	/* the temporary file is left behind only on success, as the entry */
	defer func() {
		if err != nil {
			_ = f.Close()
			_ = os.Remove(f.Name())
		}
	}()

	e.Schema = SchemaVersion
	if err = msgpack.NewEncoder(f).Encode(e); err != nil {
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), p)
}

// Get reads the entry stored under key into out. It reports false for
// missing entries and entries of another schema version.
func (c *Cache) Get(key Digest, out *Entry) (bool, error) {
	if c == nil {
		return false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	defer f.Close()

	var e Entry
	if err := msgpack.NewDecoder(f).Decode(&e); err != nil {
		return false, fmt.Errorf("cache entry %s: %w", key, err)
	}
	if e.Schema != SchemaVersion {
		return false, nil
	}
	*out = e
	return true, nil
}

// DropAll removes every entry.
func (c *Cache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return os.RemoveAll(filepath.Join(c.dir, "results"))
}
