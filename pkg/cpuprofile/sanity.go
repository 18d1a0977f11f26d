package cpuprofile

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
)

// SanityResult holds the outcome of a consistency check on a profile.
type SanityResult struct {
	Check   string
	Passed  bool
	Details string
}

// Check validates a profile and its analysis against the constraints the
// report relies on.
func Check(p *Profile, a *Analysis) []SanityResult {
	var results []SanityResult

	if len(p.TimeDeltas) == len(p.Samples) {
		results = append(results, SanityResult{
			Check:   "time deltas match samples",
			Passed:  true,
			Details: fmt.Sprintf("%d samples", len(p.Samples)),
		})
	} else {
		results = append(results, SanityResult{
			Check:   "time deltas match samples",
			Passed:  false,
			Details: fmt.Sprintf("%d samples, %d time deltas", len(p.Samples), len(p.TimeDeltas)),
		})
	}

	negative := 0
	for _, d := range p.TimeDeltas {
		if d < 0 {
			negative++
		}
	}
	results = append(results, SanityResult{
		Check:   "time deltas non-negative",
		Passed:  negative == 0,
		Details: fmt.Sprintf("%d negative deltas clamped to zero", negative),
	})

	unresolved := 0
	for _, id := range p.Samples {
		if _, ok := p.Nodes[id]; !ok {
			unresolved++
		}
	}
	results = append(results, SanityResult{
		Check:   "sampled nodes resolved",
		Passed:  unresolved == 0,
		Details: fmt.Sprintf("%d samples reference unknown nodes", unresolved),
	})

	var inverted []string
	for _, name := range Ranked(a.SelfTime) {
		if a.TotalTime[name] < a.SelfTime[name] {
			inverted = append(inverted, name)
		}
	}
	results = append(results, SanityResult{
		Check:   "total time covers self time",
		Passed:  len(inverted) == 0,
		Details: strings.Join(inverted, ", "),
	})

	return results
}

// LogSanity logs passed checks at debug level and failed ones as warnings,
// tagged with fields. A nil logger means logrus.New() at WarnLevel.
func LogSanity(logger *logrus.Logger, fields logrus.Fields, results []SanityResult) {
	if logger == nil {
		logger = logrus.New()
		logger.SetLevel(logrus.WarnLevel)
	}
	base := logger.WithFields(fields)
	for _, r := range results {
		entry := base.WithFields(logrus.Fields{
			"check":   r.Check,
			"details": r.Details,
		})
		if r.Passed {
			entry.Debug("Sanity check passed")
		} else {
			entry.Warn("Sanity check failed")
		}
	}
}
