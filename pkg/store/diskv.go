package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/peterbourgon/diskv/v3"

	"tableflip.dev/worklog/pkg/worklog"
)

func init() {
	Register("diskv", func(_ context.Context, opts Options) (Repository, error) {
		path, err := opts.ResolvedPath()
		if err != nil {
			return nil, err
		}
		return OpenDiskv(path)
	})
}

const (
	entryPrefix = "entry-"
	nextIDKey   = "meta-nextid"
)

// Diskv stores every entry as a JSON document under a base directory.
// Queries scan all entries.
type Diskv struct {
	mu sync.Mutex
	d  *diskv.Diskv
}

var _ Repository = (*Diskv)(nil)

// OpenDiskv returns a repository rooted at basePath.
func OpenDiskv(basePath string) (*Diskv, error) {
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, worklog.Unavailable("diskv: ensure base path", err)
	}
	return &Diskv{d: diskv.New(diskv.Options{
		BasePath:          basePath,
		AdvancedTransform: keyToPathTransform,
		InverseTransform:  pathToKeyTransform,
		CacheSizeMax:      1024 * 1024, // 1MB
	})}, nil
}

func (p *Diskv) readAll(ctx context.Context) ([]worklog.Entity, error) {
	all := make([]worklog.Entity, 0)
	for key := range p.d.KeysPrefix(entryPrefix, ctx.Done()) {
		e, err := p.read(key)
		if err != nil {
			return nil, err
		}
		all = append(all, e)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return all, nil
}

func (p *Diskv) read(key string) (worklog.Entity, error) {
	val, err := p.d.Read(key)
	if err != nil {
		return worklog.Entity{}, worklog.Unavailable("diskv: read "+key, err)
	}
	e := worklog.Entity{}
	if err := json.Unmarshal(val, &e); err != nil {
		return worklog.Entity{}, worklog.Unavailable("diskv: decode "+key, err)
	}
	id, err := idFromKey(key)
	if err != nil {
		return worklog.Entity{}, worklog.Unavailable("diskv: decode "+key, err)
	}
	return e.WithID(id), nil
}

func (p *Diskv) write(e worklog.Entity) error {
	data, err := json.Marshal(e)
	if err != nil {
		return err
	}
	if err := p.d.Write(toKey(e.Key()), data); err != nil {
		return worklog.Unavailable("diskv: write", err)
	}
	return nil
}

func (p *Diskv) nextID() (int64, error) {
	var last int64
	if p.d.Has(nextIDKey) {
		raw, err := p.d.Read(nextIDKey)
		if err != nil {
			return 0, worklog.Unavailable("diskv: read id counter", err)
		}
		last, err = strconv.ParseInt(strings.TrimSpace(string(raw)), 10, 64)
		if err != nil {
			return 0, worklog.Unavailable("diskv: parse id counter", err)
		}
	}
	next := last + 1
	if err := p.d.Write(nextIDKey, []byte(strconv.FormatInt(next, 10))); err != nil {
		return 0, worklog.Unavailable("diskv: write id counter", err)
	}
	return next, nil
}

func (p *Diskv) Years(ctx context.Context) ([]string, error) {
	all, err := p.readAll(ctx)
	if err != nil {
		return nil, err
	}
	return scanYears(all), nil
}

func (p *Diskv) Months(ctx context.Context, years []string) ([]string, error) {
	all, err := p.readAll(ctx)
	if err != nil {
		return nil, err
	}
	return scanMonths(all, years), nil
}

func (p *Diskv) Dates(ctx context.Context, years, months []string) ([]string, error) {
	if len(years) == 0 || len(months) == 0 {
		return []string{}, nil
	}
	all, err := p.readAll(ctx)
	if err != nil {
		return nil, err
	}
	return scanDates(all, years, months), nil
}

func (p *Diskv) Tasks(ctx context.Context, dates []string) ([]string, error) {
	all, err := p.readAll(ctx)
	if err != nil {
		return nil, err
	}
	return scanTasks(all, dates), nil
}

func (p *Diskv) Worklogs(ctx context.Context, dates, tasks []string) ([]worklog.Entity, error) {
	all, err := p.readAll(ctx)
	if err != nil {
		return nil, err
	}
	return scanWorklogs(all, dates, tasks), nil
}

func (p *Diskv) Save(_ context.Context, e worklog.Entity) (worklog.Entity, error) {
	if err := e.Validate(); err != nil {
		return worklog.Entity{}, err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	id, err := p.nextID()
	if err != nil {
		return worklog.Entity{}, err
	}
	saved := e.WithID(id)
	if err := p.write(saved); err != nil {
		return worklog.Entity{}, err
	}
	return saved, nil
}

func (p *Diskv) Update(_ context.Context, e worklog.Entity) (worklog.Entity, error) {
	if err := checkUpdate(e); err != nil {
		return worklog.Entity{}, err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.d.Has(toKey(*e.ID)) {
		return worklog.Entity{}, worklog.NotFound(*e.ID)
	}
	if err := p.write(e); err != nil {
		return worklog.Entity{}, err
	}
	return e, nil
}

func (p *Diskv) Delete(_ context.Context, id int64) (int64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	key := toKey(id)
	if !p.d.Has(key) {
		return id, nil
	}
	if err := p.d.Erase(key); err != nil && !errors.Is(err, os.ErrNotExist) {
		return id, worklog.Unavailable("diskv: erase", err)
	}
	return id, nil
}

func (p *Diskv) Close() error { return nil }

// keys are `entry-<id>` and `meta-nextid`; the segment before the last dash
// is the directory.
func keyToPathTransform(s string) *diskv.PathKey {
	parts := strings.Split(s, "-")
	return &diskv.PathKey{
		Path:     parts[:len(parts)-1],
		FileName: parts[len(parts)-1],
	}
}

func pathToKeyTransform(pathKey *diskv.PathKey) string {
	return fmt.Sprintf("%s-%s", strings.Join(pathKey.Path, "-"), pathKey.FileName)
}

func toKey(id int64) string {
	return entryPrefix + strconv.FormatInt(id, 10)
}

func idFromKey(key string) (int64, error) {
	return strconv.ParseInt(strings.TrimPrefix(key, entryPrefix), 10, 64)
}
