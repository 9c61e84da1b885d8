package usecase

import (
	"github.com/bits-and-blooms/bloom/v3"
)

// LeadIDSet holds the lead ids of one campaign seen so far in this run,
// seeded from the ids already stored under its flag.
type LeadIDSet struct {
	seen map[string]struct{}
}

// NewLeadIDSet seeds a set with stored ids.
func NewLeadIDSet(ids []string) *LeadIDSet {
	s := &LeadIDSet{seen: make(map[string]struct{}, len(ids))}
	for _, id := range ids {
		s.seen[id] = struct{}{}
	}
	return s
}

// Claim marks id as seen and reports whether it was new. Ids are claimed
// before the row is inserted so repeats later in the same file are caught.
func (s *LeadIDSet) Claim(id string) bool {
	if _, ok := s.seen[id]; ok {
		return false
	}
	s.seen[id] = struct{}{}
	return true
}

// Len returns the number of ids in the set.
func (s *LeadIDSet) Len() int {
	return len(s.seen)
}

const (
	minPhoneFilterItems = 100000
	phoneFilterFPRate   = 0.01
)

// PhoneSet is every phone number known to the run: the stored phone queue plus
// numbers accepted since. Not safe for concurrent use.
type PhoneSet struct {
	filter *bloom.BloomFilter // negative lookups skip the map
	known  map[string]struct{}
}

// NewPhoneSet seeds a set with stored phone numbers.
func NewPhoneSet(phones []string) *PhoneSet {
	expected := uint(2 * len(phones))
	if expected < minPhoneFilterItems {
		expected = minPhoneFilterItems
	}
	s := &PhoneSet{
		filter: bloom.NewWithEstimates(expected, phoneFilterFPRate),
		known:  make(map[string]struct{}, len(phones)),
	}
	for _, p := range phones {
		if p != "" {
			s.add(p)
		}
	}
	return s
}

func (s *PhoneSet) add(phone string) {
	s.filter.AddString(phone)
	s.known[phone] = struct{}{}
}

// Contains reports whether the number is already known.
func (s *PhoneSet) Contains(phone string) bool {
	if !s.filter.TestString(phone) {
		return false
	}
	_, ok := s.known[phone]
	return ok
}

// Claim filters candidates down to the numbers not yet known, in their
// original order, and marks the survivors as known. A number repeated within
// candidates survives once.
func (s *PhoneSet) Claim(candidates []string) []string {
	var novel []string
	for _, p := range candidates {
		if p == "" || s.Contains(p) {
			continue
		}
		s.add(p)
		novel = append(novel, p)
	}
	return novel
}

// Len returns the number of known phones.
func (s *PhoneSet) Len() int {
	return len(s.known)
}
