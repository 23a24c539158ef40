package reconcile_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"drug-pipeline/internal/domain/entity"
	"drug-pipeline/internal/usecase/reconcile"
)

/* ───────── モック実装 ───────── */

// stubObjectStore はObjectStoreのモック実装
type stubObjectStore struct {
	putErr  error
	objects map[string][]byte
}

func (s *stubObjectStore) Put(_ context.Context, bucket, object string, data []byte) error {
	if s.putErr != nil {
		return s.putErr
	}
	if s.objects == nil {
		s.objects = make(map[string][]byte)
	}
	s.objects[bucket+"/"+object] = data
	return nil
}

func (s *stubObjectStore) Get(_ context.Context, bucket, object string) ([]byte, error) {
	data, ok := s.objects[bucket+"/"+object]
	if !ok {
		return nil, errors.New("object not found")
	}
	return data, nil
}

func (s *stubObjectStore) Upload(_ context.Context, _, _, _ string) error {
	return nil
}

/* ───────── テストケース ───────── */

func TestService_Run_SingleDrugSingleMention(t *testing.T) {
	store := &stubObjectStore{}
	svc := reconcile.NewService(store, 1)

	drugs := []entity.Drug{{ID: "d1", Name: "Aspirin"}}
	pubmed := []entity.Mention{
		{ID: "p1", Title: "Aspirin reduces risk", Journal: "NEJM", Date: "2020-01-01", Origin: entity.OriginPubMedJSON},
	}

	stats, results, err := svc.Run(context.Background(), drugs, pubmed, nil, "gold", "drug_reconciliated.json")
	require.NoError(t, err)

	assert.Equal(t, 1, stats.Drugs)
	assert.Equal(t, 1, stats.MentionsMatched)
	assert.Greater(t, stats.DocumentBytes, 0)

	require.Len(t, results, 1)
	assert.Equal(t, "Aspirin", results[0].Drug.Name)

	data, ok := store.objects["gold/drug_reconciliated.json"]
	require.True(t, ok, "gold document was not persisted")
	assert.JSONEq(t, `[
		{
			"drug": "Aspirin",
			"journals": {"NEJM": ["2020-01-01"]},
			"mentions": [
				{"title": "Aspirin reduces risk", "date": "2020-01-01", "journal": "NEJM", "origin": "pubmed"}
			]
		}
	]`, string(data))
}

func TestService_Run_DrugWithoutMentions(t *testing.T) {
	store := &stubObjectStore{}
	svc := reconcile.NewService(store, 1)

	drugs := []entity.Drug{{ID: "d2", Name: "Betaline"}}

	stats, results, err := svc.Run(context.Background(), drugs, nil, nil, "gold", "drug_reconciliated.json")
	require.NoError(t, err)

	assert.Equal(t, 1, stats.Drugs)
	assert.Equal(t, 0, stats.MentionsMatched)
	require.Len(t, results, 1)

	data := store.objects["gold/drug_reconciliated.json"]
	assert.JSONEq(t, `[{"drug": "Betaline", "journals": {}, "mentions": []}]`, string(data))
}

func TestService_Run_EmptyDrugSetStillPersists(t *testing.T) {
	store := &stubObjectStore{}
	svc := reconcile.NewService(store, 4)

	stats, results, err := svc.Run(context.Background(), nil, nil, nil, "gold", "drug_reconciliated.json")
	require.NoError(t, err)

	assert.Equal(t, 0, stats.Drugs)
	assert.Len(t, results, 0)

	// 薬剤ゼロでも空配列ドキュメントを書き出す
	data, ok := store.objects["gold/drug_reconciliated.json"]
	require.True(t, ok)
	assert.JSONEq(t, `[]`, string(data))
}

func TestService_Run_StoreErrorPropagates(t *testing.T) {
	store := &stubObjectStore{putErr: errors.New("bucket unavailable")}
	svc := reconcile.NewService(store, 1)

	drugs := []entity.Drug{{ID: "d1", Name: "Aspirin"}}

	_, _, err := svc.Run(context.Background(), drugs, nil, nil, "gold", "drug_reconciliated.json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "persist gold document gold/drug_reconciliated.json")
	assert.Contains(t, err.Error(), "bucket unavailable")
}

func TestService_Run_CanceledContext(t *testing.T) {
	store := &stubObjectStore{}
	svc := reconcile.NewService(store, 4)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	drugs := []entity.Drug{{ID: "d1", Name: "Aspirin"}}

	_, _, err := svc.Run(ctx, drugs, nil, nil, "gold", "drug_reconciliated.json")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, store.objects, "nothing should be persisted after cancellation")
}

func TestService_Run_MultipleDrugsAcrossSets(t *testing.T) {
	store := &stubObjectStore{}
	svc := reconcile.NewService(store, 4)

	drugs := []entity.Drug{
		{ID: "d1", Name: "Aspirin"},
		{ID: "d2", Name: "Paracetamol"},
		{ID: "d3", Name: "Betaline"},
	}
	pubmed := []entity.Mention{
		{ID: "p1", Title: "Aspirin and stroke prevention", Journal: "NEJM", Date: "2020-01-01", Origin: entity.OriginPubMedJSON},
		{ID: "p2", Title: "Paracetamol overdose management", Journal: "BMJ", Date: "2020-02-01", Origin: entity.OriginPubMedCSV},
	}
	clinical := []entity.Mention{
		{ID: "c1", Title: "Paracetamol versus placebo", Journal: "Trials", Date: "2020-03-01", Origin: entity.OriginClinicalTrials},
	}

	stats, results, err := svc.Run(context.Background(), drugs, pubmed, clinical, "gold", "out.json")
	require.NoError(t, err)

	assert.Equal(t, 3, stats.Drugs)
	assert.Equal(t, 3, stats.MentionsMatched)

	require.Len(t, results, 3)
	assert.Equal(t, "Aspirin", results[0].Drug.Name)
	assert.Len(t, results[0].Mentions, 1)
	assert.Equal(t, "Paracetamol", results[1].Drug.Name)
	assert.Len(t, results[1].Mentions, 2)
	assert.Equal(t, "pubmed", results[1].Mentions[0].Origin)
	assert.Equal(t, "clinical_trials", results[1].Mentions[1].Origin)
	assert.Equal(t, "Betaline", results[2].Drug.Name)
	assert.Empty(t, results[2].Mentions)
}
