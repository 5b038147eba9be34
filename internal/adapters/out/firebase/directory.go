package firebase

import (
	"cmp"
	"context"
	"errors"
	"slices"
	"time"

	"cloud.google.com/go/firestore"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/partner"
	"dispatch/internal/core/domain/model/view"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

// Duty record fields.
const (
	fieldDutyPartnerID = "dp_id"
	fieldDutyName      = "dp_name"
	fieldDutyState     = "dp_state"
	fieldDutyDistrict  = "dp_district"
	fieldDutyMode      = "duty_mode"
	fieldDutyLocation  = "dp_loc_coordinates"
	fieldDutyGeohash   = "dp_geohash"
	fieldDutyMillis    = "last_duty_status_update_millis"
	fieldDutyTimestamp = "last_duty_status_update_timestamp"
)

// PartnerDirectory keeps duty records under
// DeliveryPartnerDutyStatus/{state}/{district}/{date}/dutyStatus.
type PartnerDirectory struct {
	client *firestore.Client
}

var _ ports.PartnerDirectory = (*PartnerDirectory)(nil)

func NewPartnerDirectory(client *firestore.Client) *PartnerDirectory {
	return &PartnerDirectory{client: client}
}

// FindOnDutyPartners filters on duty_mode in Firestore and orders in process,
// so the bucket needs no composite index.
func (d *PartnerDirectory) FindOnDutyPartners(ctx context.Context, bucket partner.DutyBucket) ([]partner.Candidate, error) {
	if err := bucket.Validate(); err != nil {
		return nil, err
	}

	snaps, err := d.client.Collection(view.DutyRecords(bucket).Path()).
		Where(fieldDutyMode, "==", partner.DutyModeOn.String()).
		Documents(ctx).GetAll()
	if err != nil {
		return nil, errs.NewExternalServiceError(serviceFirestore, err)
	}

	type record struct {
		id string
		p  *partner.Partner
	}
	records := make([]record, 0, len(snaps))
	for _, snap := range snaps {
		p, err := restoreDuty(bucket, snap.Ref.ID, decode(snap.Data()))
		if err != nil {
			return nil, err
		}
		records = append(records, record{id: snap.Ref.ID, p: p})
	}
	slices.SortFunc(records, func(a, b record) int {
		if c := cmp.Compare(a.p.LastDutyUpdateMillis(), b.p.LastDutyUpdateMillis()); c != 0 {
			return c
		}
		return cmp.Compare(a.id, b.id)
	})

	out := make([]partner.Candidate, 0, len(records))
	for _, r := range records {
		out = append(out, r.p.Candidate())
	}
	return out, nil
}

// UpdatePartnerTimestamp runs the check-and-set inside a transaction so two
// placements cannot both claim the same partner.
func (d *PartnerDirectory) UpdatePartnerTimestamp(
	ctx context.Context,
	bucket partner.DutyBucket,
	partnerID string,
	expectedMillis int64,
	nextMillis int64,
) (bool, error) {
	if err := bucket.Validate(); err != nil {
		return false, err
	}

	ref := d.client.Doc(view.DutyRecord(bucket, partnerID).Path())
	swapped := false
	err := d.client.RunTransaction(ctx, func(_ context.Context, tx *firestore.Transaction) error {
		swapped = false
		snap, err := tx.Get(ref)
		if err != nil {
			return err
		}
		if decode(snap.Data()).Int64(fieldDutyMillis) != expectedMillis {
			return nil
		}
		swapped = true
		return tx.Update(ref, []firestore.Update{
			{Path: fieldDutyMillis, Value: nextMillis},
			{Path: fieldDutyTimestamp, Value: time.UnixMilli(nextMillis).UTC()},
		})
	})
	if isNotFound(err) {
		return false, errs.NewObjectNotFoundError("partnerId", partnerID)
	}
	if err != nil {
		return false, errs.NewExternalServiceError(serviceFirestore, err)
	}
	return swapped, nil
}

func (d *PartnerDirectory) SetPartnerDutyMode(ctx context.Context, bucket partner.DutyBucket, p *partner.Partner) error {
	if err := errors.Join(bucket.Validate(), p.Validate()); err != nil {
		return err
	}

	doc := view.Document{
		fieldDutyPartnerID: p.ID(),
		fieldDutyName:      p.Name(),
		fieldDutyState:     p.State(),
		fieldDutyDistrict:  p.District(),
		fieldDutyMode:      p.DutyMode().String(),
		fieldDutyMillis:    p.LastDutyUpdateMillis(),
		fieldDutyTimestamp: time.UnixMilli(p.LastDutyUpdateMillis()).UTC(),
	}
	if loc := p.Location(); loc != nil {
		doc[fieldDutyLocation] = *loc
		doc[fieldDutyGeohash] = loc.Geohash(kernel.GeohashStoredPrecision)
	}

	_, err := d.client.Doc(view.DutyRecord(bucket, p.ID()).Path()).Set(ctx, encode(doc), firestore.MergeAll)
	if err != nil {
		return errs.NewExternalServiceError(serviceFirestore, err)
	}
	return nil
}

func (d *PartnerDirectory) GetPartnerDuty(ctx context.Context, bucket partner.DutyBucket, partnerID string) (*partner.Partner, error) {
	if err := bucket.Validate(); err != nil {
		return nil, err
	}

	snap, err := d.client.Doc(view.DutyRecord(bucket, partnerID).Path()).Get(ctx)
	if isNotFound(err) {
		return nil, errs.NewObjectNotFoundError("partnerId", partnerID)
	}
	if err != nil {
		return nil, errs.NewExternalServiceError(serviceFirestore, err)
	}
	return restoreDuty(bucket, partnerID, decode(snap.Data()))
}

func (d *PartnerDirectory) RemovePartnerDuty(ctx context.Context, bucket partner.DutyBucket, partnerID string) error {
	if err := bucket.Validate(); err != nil {
		return err
	}
	_, err := d.client.Doc(view.DutyRecord(bucket, partnerID).Path()).Delete(ctx)
	if err != nil && !isNotFound(err) {
		return errs.NewExternalServiceError(serviceFirestore, err)
	}
	return nil
}

// restoreDuty falls back to the bucket's area for records written by the
// partner app, which only carry the duty fields.
func restoreDuty(bucket partner.DutyBucket, partnerID string, doc view.Document) (*partner.Partner, error) {
	mode, err := partner.ParseDutyMode(doc.String(fieldDutyMode))
	if err != nil {
		return nil, err
	}

	state, district := doc.String(fieldDutyState), doc.String(fieldDutyDistrict)
	if state == "" || district == "" {
		state, district = bucket.State(), bucket.District()
	}

	var loc *kernel.Location
	if l, ok := doc.Location(fieldDutyLocation); ok {
		loc = &l
	}
	return partner.RestorePartner(partnerID, doc.String(fieldDutyName), state, district, mode, loc, doc.Int64(fieldDutyMillis))
}
