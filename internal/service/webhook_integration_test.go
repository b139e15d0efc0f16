package service

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/realtyhub/backoffice/internal/domain"
	"github.com/realtyhub/backoffice/internal/repository"
	"github.com/realtyhub/backoffice/internal/testutil"
	"github.com/realtyhub/backoffice/internal/validation"
)

func TestWebhookService_PersistsPropertyAndEvent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()
	events := repository.NewWebhookEventRepository(db)
	props := repository.NewPropertyRepository(db)
	svc := NewWebhookService(events, props, repository.NewNewsRepository(db), validation.New())

	raw := json.RawMessage(`{"type":"property","title":"Casa","price":200000,"area":100}`)
	event, err := svc.Handle(ctx, domain.WebhookTypeProperty, raw)
	require.NoError(t, err)

	stored, err := events.GetByID(ctx, event.ID)
	require.NoError(t, err)
	assert.JSONEq(t, string(raw), string(stored.Payload))
	assert.Equal(t, "zapier", stored.Source)

	list, total, err := props.List(ctx, "", 10, 0)
	require.NoError(t, err)
	require.Equal(t, 1, total)
	require.NotNil(t, list[0].PricePerSqm)
	assert.True(t, list[0].PricePerSqm.Equal(decimal.NewFromInt(2000)), "got %s", list[0].PricePerSqm)
}

func TestWebhookService_UnknownTypeWritesOneEventOnly(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := NewWebhookService(
		repository.NewWebhookEventRepository(db),
		repository.NewPropertyRepository(db),
		repository.NewNewsRepository(db),
		validation.New(),
	)

	_, err := svc.Handle(context.Background(), "lead", json.RawMessage(`{"name":"Ana"}`))
	require.NoError(t, err)

	assert.Equal(t, 1, testutil.CountRows(t, db, "webhook_events"))
	assert.Equal(t, 0, testutil.CountRows(t, db, "properties"))
	assert.Equal(t, 0, testutil.CountRows(t, db, "news"))
}

func TestWebhookService_ZeroAreaStoresNullPricePerSqm(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()
	props := repository.NewPropertyRepository(db)
	svc := NewWebhookService(repository.NewWebhookEventRepository(db), props, repository.NewNewsRepository(db), validation.New())

	_, err := svc.Handle(ctx, domain.WebhookTypeProperty, json.RawMessage(`{"title":"Lote","price":50000,"area":0}`))
	require.NoError(t, err)

	list, total, err := props.List(ctx, "", 10, 0)
	require.NoError(t, err)
	require.Equal(t, 1, total)
	require.NotNil(t, list[0].Area)
	assert.True(t, list[0].Area.IsZero())
	assert.Nil(t, list[0].PricePerSqm)
	assert.Equal(t, 1, testutil.CountRows(t, db, "webhook_events"))
}
