package tracker

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	repsSetsRe  = regexp.MustCompile(`(\d+)\s*sets?\s*x?\s*(\d+)\s*reps?`)
	repsTimesRe = regexp.MustCompile(`(\d+)\s*x\s*(\d+)\s*reps?`)
	repsOnlyRe  = regexp.MustCompile(`(\d+)\s*reps?`)
)

// ParseReps extracts a (reps, sets) target from duration text such as
// "10 reps", "3x10 reps" or "3 sets x 10 reps". ok is false for text
// that is not rep-based.
func ParseReps(text string) (reps, sets int, ok bool) {
	s := strings.ToLower(text)
	if m := repsSetsRe.FindStringSubmatch(s); m != nil {
		sets, _ = strconv.Atoi(m[1])
		reps, _ = strconv.Atoi(m[2])
		return reps, sets, reps > 0 && sets > 0
	}
	if m := repsTimesRe.FindStringSubmatch(s); m != nil {
		sets, _ = strconv.Atoi(m[1])
		reps, _ = strconv.Atoi(m[2])
		return reps, sets, reps > 0 && sets > 0
	}
	if m := repsOnlyRe.FindStringSubmatch(s); m != nil {
		reps, _ = strconv.Atoi(m[1])
		return reps, 1, reps > 0
	}
	return 0, 0, false
}

// RepCounter tracks manual repetition counting for rep-based items.
// CurrentSet is 1-based; CurrentRep counts reps done in the current set.
type RepCounter struct {
	TargetReps int
	TargetSets int
	CurrentRep int
	CurrentSet int
}

// NewRepCounter returns a counter for the item's duration text, or false
// when the text does not describe repetitions.
func NewRepCounter(durationText string) (*RepCounter, bool) {
	reps, sets, ok := ParseReps(durationText)
	if !ok {
		return nil, false
	}
	return &RepCounter{TargetReps: reps, TargetSets: sets, CurrentSet: 1}, true
}

// Increment counts one rep, rolling into the next set when a set fills up.
// It returns true once the whole exercise is complete.
func (r *RepCounter) Increment() bool {
	if r.ExerciseComplete() {
		return true
	}
	r.CurrentRep++
	if r.SetComplete() && r.CurrentSet < r.TargetSets {
		r.CompleteSet()
	}
	return r.ExerciseComplete()
}

// CompleteSet moves to the next set, skipping any remaining reps.
func (r *RepCounter) CompleteSet() {
	if r.CurrentSet >= r.TargetSets {
		r.CurrentRep = r.TargetReps
		return
	}
	r.CurrentSet++
	r.CurrentRep = 0
}

func (r *RepCounter) SetComplete() bool {
	return r.CurrentRep >= r.TargetReps
}

func (r *RepCounter) ExerciseComplete() bool {
	return r.CurrentSet >= r.TargetSets && r.SetComplete()
}

func (r *RepCounter) Reset() {
	r.CurrentRep = 0
	r.CurrentSet = 1
}

// Percent returns overall completion in [0,1].
func (r *RepCounter) Percent() float64 {
	total := r.TargetReps * r.TargetSets
	if total == 0 {
		return 0
	}
	done := (r.CurrentSet-1)*r.TargetReps + r.CurrentRep
	if done > total {
		done = total
	}
	return float64(done) / float64(total)
}

func (r *RepCounter) Display() string {
	if r.TargetSets > 1 {
		return fmt.Sprintf("Set %d/%d - Rep %d/%d", r.CurrentSet, r.TargetSets, r.CurrentRep, r.TargetReps)
	}
	return fmt.Sprintf("Rep %d/%d", r.CurrentRep, r.TargetReps)
}
