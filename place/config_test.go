package place

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnnealingSchedValidate(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*AnnealingSched)
		wantErr bool
	}{
		{"defaults valid", func(s *AnnealingSched) {}, false},
		{"unknown mode", func(s *AnnealingSched) { s.Mode = "dusty" }, true},
		{"alpha zero", func(s *AnnealingSched) { s.Alpha = 0 }, true},
		{"alpha one", func(s *AnnealingSched) { s.Alpha = 1 }, true},
		{"user mode without init t", func(s *AnnealingSched) { s.Mode = ScheduleUser }, true},
		{"user mode with init t", func(s *AnnealingSched) { s.Mode = ScheduleUser; s.InitT = 50 }, false},
		{"non-positive exit threshold", func(s *AnnealingSched) { s.TExit = 0 }, true},
		{"success min at one", func(s *AnnealingSched) { s.SuccessMin = 1 }, true},
		{"success min above target", func(s *AnnealingSched) { s.SuccessMin = 0.5 }, true},
		{"non-positive inner num", func(s *AnnealingSched) { s.InnerNum = 0 }, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			sched := DefaultAnnealingSched()
			tc.mutate(&sched)
			err := sched.Validate()
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestPlacerOptsValidate(t *testing.T) {
	valid := func() PlacerOpts {
		o := DefaultPlacerOpts()
		o.NumBlocks = 10
		o.NumConnections = 40
		o.RegionExtent = 5
		return o
	}

	cases := []struct {
		name    string
		mutate  func(*PlacerOpts)
		wantErr bool
	}{
		{"valid", func(o *PlacerOpts) {}, false},
		{"zero blocks", func(o *PlacerOpts) { o.NumBlocks = 0 }, true},
		{"zero connections", func(o *PlacerOpts) { o.NumConnections = 0 }, true},
		{"region below final rlim", func(o *PlacerOpts) { o.RegionExtent = 0.5 }, true},
		{"tradeoff above one", func(o *PlacerOpts) { o.TimingTradeoff = 1.5 }, true},
		{"inverted exponent range", func(o *PlacerOpts) {
			o.PlaceAlgorithm = TimingDriven
			o.TimingExpFirst = 8
			o.TimingExpLast = 1
		}, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			opts := valid()
			tc.mutate(&opts)
			err := opts.Validate()
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoadScheduleBundle_AppliesOnlySetFields(t *testing.T) {
	// GIVEN a YAML file overriding a subset of the schedule
	dir := t.TempDir()
	path := filepath.Join(dir, "schedule.yaml")
	yamlBody := "mode: user\ninit_t: 75.5\nalpha: 0.85\n"
	require.NoError(t, os.WriteFile(path, []byte(yamlBody), 0o644))

	// WHEN the bundle is loaded, validated and applied over the defaults
	bundle, err := LoadScheduleBundle(path)
	require.NoError(t, err)
	require.NoError(t, bundle.Validate())
	sched := bundle.Apply(DefaultAnnealingSched())

	// THEN set fields override and unset fields keep their defaults
	assert.Equal(t, ScheduleUser, sched.Mode)
	assert.Equal(t, 75.5, sched.InitT)
	assert.Equal(t, 0.85, sched.Alpha)
	assert.Equal(t, DefaultAnnealingSched().TExit, sched.TExit)
	assert.Equal(t, DefaultAnnealingSched().SuccessMin, sched.SuccessMin)
	assert.Equal(t, DefaultAnnealingSched().SuccessTarget, sched.SuccessTarget)
	assert.NoError(t, sched.Validate())
}

func TestLoadScheduleBundle_Errors(t *testing.T) {
	_, err := LoadScheduleBundle(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("alpha: [not-a-number"), 0o644))
	_, err = LoadScheduleBundle(path)
	assert.Error(t, err)
}

func TestScheduleBundleValidate_RejectsBadRanges(t *testing.T) {
	badAlpha := 1.5
	bundle := &ScheduleBundle{Alpha: &badAlpha}
	assert.Error(t, bundle.Validate())

	bundle = &ScheduleBundle{Mode: "adaptive"}
	assert.Error(t, bundle.Validate())

	badExit := -1.0
	bundle = &ScheduleBundle{TExit: &badExit}
	assert.Error(t, bundle.Validate())
}
