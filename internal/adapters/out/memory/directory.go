package memory

import (
	"context"
	"errors"
	"slices"
	"sync"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/partner"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

type dutyRecord struct {
	id       string
	name     string
	state    string
	district string
	mode     partner.DutyMode
	location *kernel.Location
	millis   int64
	seq      int
}

// PartnerDirectory is a mutex guarded duty registry. Records of one bucket
// keep their insertion order for equal timestamps.
type PartnerDirectory struct {
	mu      sync.Mutex
	buckets map[string]map[string]*dutyRecord
	seq     int
}

var _ ports.PartnerDirectory = (*PartnerDirectory)(nil)

func NewPartnerDirectory() *PartnerDirectory {
	return &PartnerDirectory{buckets: make(map[string]map[string]*dutyRecord)}
}

func (d *PartnerDirectory) FindOnDutyPartners(_ context.Context, bucket partner.DutyBucket) ([]partner.Candidate, error) {
	if err := bucket.Validate(); err != nil {
		return nil, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	records := make([]*dutyRecord, 0, len(d.buckets[bucket.Key()]))
	for _, r := range d.buckets[bucket.Key()] {
		if r.mode.IsOnDuty() {
			records = append(records, r)
		}
	}
	slices.SortFunc(records, func(a, b *dutyRecord) int {
		if a.millis != b.millis {
			if a.millis < b.millis {
				return -1
			}
			return 1
		}
		return a.seq - b.seq
	})

	out := make([]partner.Candidate, 0, len(records))
	for _, r := range records {
		p, err := r.restore()
		if err != nil {
			return nil, err
		}
		out = append(out, p.Candidate())
	}
	return out, nil
}

func (d *PartnerDirectory) UpdatePartnerTimestamp(
	_ context.Context,
	bucket partner.DutyBucket,
	partnerID string,
	expectedMillis int64,
	nextMillis int64,
) (bool, error) {
	if err := bucket.Validate(); err != nil {
		return false, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	r, ok := d.buckets[bucket.Key()][partnerID]
	if !ok {
		return false, errs.NewObjectNotFoundError("partnerId", partnerID)
	}
	if r.millis != expectedMillis {
		return false, nil
	}
	r.millis = nextMillis
	return true, nil
}

func (d *PartnerDirectory) SetPartnerDutyMode(_ context.Context, bucket partner.DutyBucket, p *partner.Partner) error {
	if err := errors.Join(bucket.Validate(), p.Validate()); err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	records, ok := d.buckets[bucket.Key()]
	if !ok {
		records = make(map[string]*dutyRecord)
		d.buckets[bucket.Key()] = records
	}

	r, ok := records[p.ID()]
	if !ok {
		d.seq++
		r = &dutyRecord{id: p.ID(), seq: d.seq}
		records[p.ID()] = r
	}
	r.name = p.Name()
	r.state = p.State()
	r.district = p.District()
	r.mode = p.DutyMode()
	r.millis = p.LastDutyUpdateMillis()
	if loc := p.Location(); loc != nil {
		l := *loc
		r.location = &l
	}
	return nil
}

func (d *PartnerDirectory) GetPartnerDuty(_ context.Context, bucket partner.DutyBucket, partnerID string) (*partner.Partner, error) {
	if err := bucket.Validate(); err != nil {
		return nil, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	r, ok := d.buckets[bucket.Key()][partnerID]
	if !ok {
		return nil, errs.NewObjectNotFoundError("partnerId", partnerID)
	}
	return r.restore()
}

func (d *PartnerDirectory) RemovePartnerDuty(_ context.Context, bucket partner.DutyBucket, partnerID string) error {
	if err := bucket.Validate(); err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	delete(d.buckets[bucket.Key()], partnerID)
	return nil
}

func (r *dutyRecord) restore() (*partner.Partner, error) {
	return partner.RestorePartner(r.id, r.name, r.state, r.district, r.mode, r.location, r.millis)
}
