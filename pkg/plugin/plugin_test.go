package plugin_test

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"tableflip.dev/worklog/pkg/plugin"
	"tableflip.dev/worklog/pkg/plugin/logsink"
	"tableflip.dev/worklog/pkg/worklog"
)

type recorder struct {
	name  string
	cols  []string
	calls *[]string
	err   error
	panic bool
}

func (r *recorder) Columns() []string { return r.cols }

func (r *recorder) OnSave(_ context.Context, e worklog.Entity) error {
	*r.calls = append(*r.calls, r.name)
	if r.panic {
		panic("boom")
	}
	return r.err
}

func TestNotifySaveOrderAndIsolation(t *testing.T) {
	var calls []string
	reg := plugin.NewRegistry(nil)
	reg.Register("first", &recorder{name: "first", calls: &calls})
	reg.Register("broken", &recorder{name: "broken", calls: &calls, err: errors.New("offline")})
	reg.Register("panicky", &recorder{name: "panicky", calls: &calls, panic: true})
	reg.Register("last", &recorder{name: "last", calls: &calls})

	err := reg.NotifySave(context.Background(), worklog.New("2024-01-05", "build", "2H").WithID(1))
	if want := []string{"first", "broken", "panicky", "last"}; !reflect.DeepEqual(calls, want) {
		t.Fatalf("calls = %v, want %v", calls, want)
	}
	if err == nil {
		t.Fatalf("expected joined failures")
	}
	var failure *plugin.Failure
	if !errors.As(err, &failure) || failure.Plugin != "broken" {
		t.Fatalf("expected first failure from broken, got %v", err)
	}
}

func TestNotifySaveWithoutFailures(t *testing.T) {
	var calls []string
	reg := plugin.NewRegistry(nil)
	reg.Register("only", &recorder{name: "only", calls: &calls})
	if err := reg.NotifySave(context.Background(), worklog.New("2024-01-05", "a", "1H").WithID(1)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestColumnsInRegistrationOrder(t *testing.T) {
	var calls []string
	reg := plugin.NewRegistry(nil)
	reg.Register("a", &recorder{name: "a", cols: []string{"x", "y"}, calls: &calls})
	reg.Register("b", &recorder{name: "b", cols: []string{"z"}, calls: &calls})

	var got []string
	for _, c := range reg.Columns() {
		got = append(got, c.Plugin+"."+c.Name)
		if v := c.Cell(worklog.New("2024-01-05", "a", "1H").WithID(1)); v != "" {
			t.Fatalf("plugin without renderer produced %q", v)
		}
	}
	if want := []string{"a.x", "a.y", "b.z"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("columns = %v, want %v", got, want)
	}
}

func TestLoadBuiltinAndUnknown(t *testing.T) {
	reg, err := plugin.Load([]string{logsink.Name, "nope"}, nil)
	if !errors.Is(err, plugin.ErrUnknownPlugin) {
		t.Fatalf("expected unknown plugin error, got %v", err)
	}
	if got := reg.Names(); !reflect.DeepEqual(got, []string{logsink.Name}) {
		t.Fatalf("names = %v", got)
	}
	cols := reg.Columns()
	if len(cols) != 1 || cols[0].Name != "sync" {
		t.Fatalf("columns = %+v", cols)
	}
}
