package repositories

import (
	"context"
	"fmt"

	"feedesk/internal/models"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Firestore collections holding one document per school, keyed by school id.
const (
	CollectionExamSpecificFees = "examSpecificFees"
	CollectionExamFeesByType   = "examFeesByType"
	CollectionClassWiseFees    = "classWiseFees"
)

var firestoreCollections = map[models.FeeSourceKind]string{
	models.FeeSourceExamSpecific: CollectionExamSpecificFees,
	models.FeeSourceByType:       CollectionExamFeesByType,
	models.FeeSourceClassWise:    CollectionClassWiseFees,
}

type firestoreFeeSourceRepository struct {
	client *firestore.Client
}

// NewFirestoreFeeSourceRepository reads fee sources from the school's Firestore documents.
func NewFirestoreFeeSourceRepository(client *firestore.Client) FeeSourceRepository {
	return &firestoreFeeSourceRepository{client: client}
}

func (r *firestoreFeeSourceRepository) GetExamSpecific(ctx context.Context, schoolID string) (*models.ExamSpecificFees, error) {
	snap, err := r.get(ctx, models.FeeSourceExamSpecific, schoolID)
	if err != nil {
		return nil, err
	}
	var doc models.ExamSpecificFees
	if err := snap.DataTo(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode exam specific fees: %w", err)
	}
	return &doc, nil
}

// GetByType also accepts the older layout where exam types are top-level fields of the
// document instead of entries of "types".
func (r *firestoreFeeSourceRepository) GetByType(ctx context.Context, schoolID string) (*models.ExamFeesByType, error) {
	snap, err := r.get(ctx, models.FeeSourceByType, schoolID)
	if err != nil {
		return nil, err
	}
	var doc models.ExamFeesByType
	if err := snap.DataTo(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode exam fees by type: %w", err)
	}
	if len(doc.Types) == 0 {
		doc.Types = topLevelTypeMaps(snap.Data())
	}
	return &doc, nil
}

func (r *firestoreFeeSourceRepository) GetClassWise(ctx context.Context, schoolID string) (*models.ClassWiseFees, error) {
	snap, err := r.get(ctx, models.FeeSourceClassWise, schoolID)
	if err != nil {
		return nil, err
	}
	var doc models.ClassWiseFees
	if err := snap.DataTo(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode class wise fees: %w", err)
	}
	return &doc, nil
}

func (r *firestoreFeeSourceRepository) SaveExamSpecific(ctx context.Context, schoolID string, doc *models.ExamSpecificFees, updatedBy string) error {
	return r.set(ctx, models.FeeSourceExamSpecific, schoolID, map[string]interface{}{"fees": doc.Fees}, updatedBy)
}

func (r *firestoreFeeSourceRepository) SaveByType(ctx context.Context, schoolID string, doc *models.ExamFeesByType, updatedBy string) error {
	return r.set(ctx, models.FeeSourceByType, schoolID, map[string]interface{}{"types": doc.Types}, updatedBy)
}

func (r *firestoreFeeSourceRepository) SaveClassWise(ctx context.Context, schoolID string, doc *models.ClassWiseFees, updatedBy string) error {
	return r.set(ctx, models.FeeSourceClassWise, schoolID, map[string]interface{}{"examFees": doc.ExamFees}, updatedBy)
}

func (r *firestoreFeeSourceRepository) get(ctx context.Context, kind models.FeeSourceKind, schoolID string) (*firestore.DocumentSnapshot, error) {
	collection, ok := firestoreCollections[kind]
	if !ok {
		return nil, ErrUnknownFeeSource
	}
	snap, err := r.client.Collection(collection).Doc(schoolID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, ErrFeeSourceNotFound
		}
		return nil, fmt.Errorf("failed to load %s fees: %w", kind, err)
	}
	return snap, nil
}

func (r *firestoreFeeSourceRepository) set(ctx context.Context, kind models.FeeSourceKind, schoolID string, data map[string]interface{}, updatedBy string) error {
	collection, ok := firestoreCollections[kind]
	if !ok {
		return ErrUnknownFeeSource
	}
	data["updatedBy"] = updatedBy
	data["updatedAt"] = firestore.ServerTimestamp
	if _, err := r.client.Collection(collection).Doc(schoolID).Set(ctx, data); err != nil {
		return fmt.Errorf("failed to save %s fees: %w", kind, err)
	}
	return nil
}

func topLevelTypeMaps(data map[string]interface{}) map[string]map[string]interface{} {
	types := make(map[string]map[string]interface{})
	for label, v := range data {
		if m, ok := v.(map[string]interface{}); ok {
			types[label] = m
		}
	}
	return types
}
