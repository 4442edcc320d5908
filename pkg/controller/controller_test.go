package controller

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ssargent/fleetdb/pkg/blob"
	"github.com/ssargent/fleetdb/pkg/codec"
	"github.com/ssargent/fleetdb/pkg/logging"
	"github.com/ssargent/fleetdb/pkg/store"
	"github.com/ssargent/fleetdb/pkg/vehicle"
)

type recordingObserver struct {
	mu        sync.Mutex
	ops       []string
	snapshots []string
	last      Stats
}

func (o *recordingObserver) ObserveOperation(op, status string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.ops = append(o.ops, op+":"+status)
}

func (o *recordingObserver) ObserveSnapshot(op, status string, bytes int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.snapshots = append(o.snapshots, op+":"+status)
}

func (o *recordingObserver) ObserveRecords(stats Stats) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.last = stats
}

func setupController(t *testing.T) (*Controller, *store.Store, *blob.FileTarget) {
	t.Helper()
	target, err := blob.NewFileTarget(t.TempDir())
	require.NoError(t, err)
	st := store.New(store.DefaultCapacity)
	return New(st, target, "binaryfile.bin", logging.Discard()), st, target
}

func carForm(plate string) Form {
	return Form{Kind: "car", Plate: plate, Make: "Mazda", Model: "3", Weight: "1300", Style: "sedan"}
}

func motoForm(plate string) Form {
	return Form{Kind: "motorcycle", Plate: plate, Make: "Yamaha", Model: "MT-07", Weight: "184", Displacement: "689"}
}

func truckForm(plate string) Form {
	return Form{Kind: "truck", Plate: plate, Make: "Volvo", Model: "FH16", Weight: "9000", Cargo: "25000"}
}

func TestController_Create(t *testing.T) {
	c, st, _ := setupController(t)

	v, res, err := c.Create(carForm(" ABC123 "))
	require.NoError(t, err)
	assert.Equal(t, store.Inserted, res)
	assert.Equal(t, vehicle.NewCar("ABC123", "Mazda", "3", 1300, "sedan"), v)
	assert.Equal(t, 1, st.Len())

	t.Run("returned record is a copy", func(t *testing.T) {
		v.Make = "changed"
		stored, err := c.Get("ABC123")
		require.NoError(t, err)
		assert.Equal(t, "Mazda", stored.Make)
	})

	t.Run("duplicate plate is rejected case-insensitively", func(t *testing.T) {
		_, _, err := c.Create(motoForm("abc123"))
		assert.ErrorIs(t, err, ErrDuplicatePlate)
		assert.Equal(t, 1, st.Len())
	})

	t.Run("invalid form is rejected", func(t *testing.T) {
		f := carForm("NEW1")
		f.Weight = "-3"
		_, _, err := c.Create(f)
		assert.True(t, IsValidation(err))
		assert.Equal(t, 1, st.Len())
	})
}

func TestController_CreateReportsGrowth(t *testing.T) {
	target, err := blob.NewFileTarget(t.TempDir())
	require.NoError(t, err)
	c := New(store.New(1), target, "binaryfile.bin", logging.Discard())

	_, res, err := c.Create(carForm("A"))
	require.NoError(t, err)
	assert.Equal(t, store.Inserted, res)

	_, res, err = c.Create(carForm("B"))
	require.NoError(t, err)
	assert.Equal(t, store.InsertedAfterGrowth, res)
	assert.Equal(t, 2, c.Stats().Capacity)
}

func TestController_Get(t *testing.T) {
	c, _, _ := setupController(t)
	_, _, err := c.Create(carForm("ABC123"))
	require.NoError(t, err)

	v, err := c.Get("abc123")
	require.NoError(t, err)
	assert.Equal(t, "ABC123", v.Plate)

	// the copy is detached from the store
	v.Make = "changed"
	again, err := c.Get("ABC123")
	require.NoError(t, err)
	assert.Equal(t, "Mazda", again.Make)

	_, err = c.Get("missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestController_Update(t *testing.T) {
	c, _, _ := setupController(t)
	_, _, err := c.Create(carForm("ABC123"))
	require.NoError(t, err)

	t.Run("keeps stored plate and may change kind", func(t *testing.T) {
		updated, err := c.Update("abc123", truckForm("OTHER"))
		require.NoError(t, err)
		assert.Equal(t, "ABC123", updated.Plate)
		assert.Equal(t, vehicle.KindTruck, updated.Kind())

		got, err := c.Get("ABC123")
		require.NoError(t, err)
		assert.Equal(t, vehicle.KindTruck, got.Kind())
		_, err = c.Get("OTHER")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("not found", func(t *testing.T) {
		_, err := c.Update("missing", carForm("missing"))
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("invalid form leaves record unchanged", func(t *testing.T) {
		f := carForm("ABC123")
		f.Style = ""
		_, err := c.Update("ABC123", f)
		assert.True(t, IsValidation(err))

		got, err := c.Get("ABC123")
		require.NoError(t, err)
		assert.Equal(t, vehicle.KindTruck, got.Kind())
	})
}

func TestController_Delete(t *testing.T) {
	c, st, _ := setupController(t)
	for _, p := range []string{"A", "B", "C"} {
		_, _, err := c.Create(carForm(p))
		require.NoError(t, err)
	}

	require.NoError(t, c.Delete("b"))
	assert.Equal(t, 2, st.Len())
	assert.ErrorIs(t, c.Delete("B"), ErrNotFound)

	list, err := c.List("all")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "A", list[0].Plate)
	assert.Equal(t, "C", list[1].Plate)
}

func TestController_List(t *testing.T) {
	c, _, _ := setupController(t)
	for _, f := range []Form{carForm("C1"), motoForm("M1"), truckForm("T1"), carForm("C2"), motoForm("M2")} {
		_, _, err := c.Create(f)
		require.NoError(t, err)
	}

	testCases := []struct {
		filter string
		want   []string
	}{
		{"", []string{"C1", "M1", "T1", "C2", "M2"}},
		{"all", []string{"C1", "M1", "T1", "C2", "M2"}},
		{"Todos", []string{"C1", "M1", "T1", "C2", "M2"}},
		{"car", []string{"C1", "C2"}},
		{"Automóvil", []string{"C1", "C2"}},
		{"motorcycle", []string{"M1", "M2"}},
		{"camion", []string{"T1"}},
	}

	for _, tc := range testCases {
		t.Run(tc.filter, func(t *testing.T) {
			list, err := c.List(tc.filter)
			require.NoError(t, err)
			plates := make([]string, 0, len(list))
			for _, v := range list {
				plates = append(plates, v.Plate)
			}
			assert.Equal(t, tc.want, plates)
		})
	}

	t.Run("unknown filter", func(t *testing.T) {
		_, err := c.List("bus")
		assert.True(t, IsValidation(err))
	})
}

func TestController_SaveLoad(t *testing.T) {
	ctx := context.Background()
	c, st, target := setupController(t)
	for _, f := range []Form{carForm("C1"), motoForm("M1"), truckForm("T1")} {
		_, _, err := c.Create(f)
		require.NoError(t, err)
	}

	res, err := c.Save(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Records)
	assert.True(t, target.Exists("binaryfile.bin"))

	// mutate, then load restores the saved contents
	require.NoError(t, c.Delete("C1"))
	_, _, err = c.Create(carForm("NEW"))
	require.NoError(t, err)

	snap, err := c.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, res.ID, snap.ID)
	assert.Equal(t, 3, st.Len())

	list, err := c.List("all")
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "C1", list[0].Plate)
	assert.Equal(t, vehicle.KindMotorcycle, list[1].Kind())
	_, err = c.Get("NEW")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestController_SaveAsLoadFrom(t *testing.T) {
	ctx := context.Background()
	c, st, target := setupController(t)
	for _, f := range []Form{carForm("C1"), truckForm("T1")} {
		_, _, err := c.Create(f)
		require.NoError(t, err)
	}

	res, err := c.SaveAs(ctx, "backup.bin")
	require.NoError(t, err)
	assert.Equal(t, "backup.bin", res.Name)
	assert.Equal(t, 2, res.Records)
	assert.True(t, target.Exists("backup.bin"))
	assert.False(t, target.Exists("binaryfile.bin"))
	assert.Equal(t, "binaryfile.bin", c.FileName())

	require.NoError(t, c.Delete("C1"))
	_, err = c.Save(ctx)
	require.NoError(t, err)

	snap, err := c.LoadFrom(ctx, "backup.bin")
	require.NoError(t, err)
	assert.Equal(t, res.ID, snap.ID)
	assert.Equal(t, 2, st.Len())

	_, err = c.LoadFrom(ctx, "../escape.bin")
	assert.Error(t, err)
	assert.Equal(t, 2, st.Len())
}

func TestController_LoadFailureLeavesStoreUntouched(t *testing.T) {
	ctx := context.Background()

	t.Run("missing file", func(t *testing.T) {
		c, st, _ := setupController(t)
		_, _, err := c.Create(carForm("KEEP"))
		require.NoError(t, err)

		_, err = c.Load(ctx)
		assert.ErrorIs(t, err, blob.ErrNotFound)
		assert.Equal(t, 1, st.Len())
		_, err = c.Get("KEEP")
		assert.NoError(t, err)
	})

	t.Run("corrupt file", func(t *testing.T) {
		c, st, target := setupController(t)
		_, _, err := c.Create(carForm("KEEP"))
		require.NoError(t, err)
		require.NoError(t, target.Put(ctx, "binaryfile.bin", []byte("garbage that is not a fleet snapshot at all....")))

		_, err = c.Load(ctx)
		var opErr *codec.OpError
		require.True(t, errors.As(err, &opErr))
		assert.Equal(t, "deserialize", opErr.Op)
		assert.Equal(t, 1, st.Len())
	})
}

func TestController_Stats(t *testing.T) {
	c, _, _ := setupController(t)
	for _, f := range []Form{carForm("C1"), carForm("C2"), truckForm("T1")} {
		_, _, err := c.Create(f)
		require.NoError(t, err)
	}

	stats := c.Stats()
	assert.Equal(t, 3, stats.Records)
	assert.Equal(t, store.DefaultCapacity, stats.Capacity)
	assert.Equal(t, map[string]int{"car": 2, "motorcycle": 0, "truck": 1}, stats.ByKind)
	assert.Equal(t, "binaryfile.bin", stats.FileName)
	assert.Equal(t, "file", stats.Driver)
}

func TestController_Observer(t *testing.T) {
	target, err := blob.NewFileTarget(t.TempDir())
	require.NoError(t, err)
	obs := &recordingObserver{}
	c := New(store.New(0), target, "binaryfile.bin", logging.Discard(), WithObserver(obs))

	_, _, err = c.Create(carForm("A"))
	require.NoError(t, err)
	_, _, err = c.Create(carForm("a"))
	require.Error(t, err)
	_, err = c.Get("zzz")
	require.Error(t, err)
	_, err = c.Load(context.Background())
	require.Error(t, err)
	_, err = c.Save(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"create:ok", "create:duplicate", "read:not_found"}, obs.ops)
	assert.Equal(t, []string{"load:not_found", "save:ok"}, obs.snapshots)
	assert.Equal(t, 1, obs.last.Records)
}

func TestController_ConcurrentAccess(t *testing.T) {
	c, st, _ := setupController(t)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _, _ = c.Create(carForm(string(rune('A'+i%26)) + string(rune('a'+i/26))))
			_, _ = c.List("all")
			_ = c.Stats()
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 50, st.Len())
}

func TestStatusOf(t *testing.T) {
	assert.Equal(t, StatusOK, StatusOf(nil))
	assert.Equal(t, StatusInvalid, StatusOf(&ValidationError{Field: "x"}))
	assert.Equal(t, StatusDuplicate, StatusOf(ErrDuplicatePlate))
	assert.Equal(t, StatusNotFound, StatusOf(ErrNotFound))
	assert.Equal(t, StatusNotFound, StatusOf(&codec.OpError{Op: "deserialize", Err: blob.ErrNotFound}))
	assert.Equal(t, StatusError, StatusOf(errors.New("boom")))
}
