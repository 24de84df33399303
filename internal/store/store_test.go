package store

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portal-data/internal/detail"
)

var (
	selectDetail = regexp.QuoteMeta(`SELECT guid, lat_e6, lng_e6, title, level, res_count, team FROM _portal_details WHERE guid=$1`)
	columns      = []string{"guid", "lat_e6", "lng_e6", "title", "level", "res_count", "team"}
)

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	st := AttachDB(db)
	t.Cleanup(func() {
		mock.ExpectClose()
		require.NoError(t, st.Close())
		assert.NoError(t, mock.ExpectationsWereMet())
	})
	return st, mock
}

func TestGetHit(t *testing.T) {
	st, mock := newMockStore(t)
	mock.ExpectQuery(selectDetail).WithArgs("p1").
		WillReturnRows(sqlmock.NewRows(columns).AddRow("p1", 51507456, -127800, "Fountain", 7, 8, "RESISTANCE"))

	d, ok := st.Get("p1")
	require.True(t, ok)
	assert.Equal(t, detail.Detail{GUID: "p1", LatE6: 51507456, LngE6: -127800, Title: "Fountain", Level: 7, ResCount: 8, Team: "RESISTANCE"}, d)
}

func TestGetNoRowsMisses(t *testing.T) {
	st, mock := newMockStore(t)
	mock.ExpectQuery(selectDetail).WithArgs("absent").WillReturnRows(sqlmock.NewRows(columns))

	_, ok := st.Get("absent")
	assert.False(t, ok)
}

func TestGetErrorMisses(t *testing.T) {
	st, mock := newMockStore(t)
	mock.ExpectQuery(selectDetail).WithArgs("p1").WillReturnError(errors.New("connection reset"))

	_, ok := st.Get("p1")
	assert.False(t, ok)
}

func TestLookupDetailReturnsError(t *testing.T) {
	st, mock := newMockStore(t)
	mock.ExpectQuery(selectDetail).WithArgs("p1").WillReturnError(errors.New("connection reset"))

	d, err := st.LookupDetail(context.Background(), "p1")
	assert.Nil(t, d)
	assert.EqualError(t, err, "connection reset")
}

func TestPutUpserts(t *testing.T) {
	st, mock := newMockStore(t)
	d := detail.Detail{GUID: "p1", LatE6: 1, LngE6: 2, Title: "T", Level: 3, ResCount: 4, Team: "ENLIGHTENED"}
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO _portal_details(guid, lat_e6, lng_e6, title, level, res_count, team)`) +
		`.*` + regexp.QuoteMeta(`ON CONFLICT (guid) DO UPDATE SET`) + `.*` + regexp.QuoteMeta(`updated_at=now()`)).
		WithArgs("p1", int32(1), int32(2), "T", 3, 4, "ENLIGHTENED").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, st.Put(context.Background(), d))
}

func TestPutReturnsExecError(t *testing.T) {
	st, mock := newMockStore(t)
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO _portal_details`)).WillReturnError(errors.New("read-only transaction"))

	assert.Error(t, st.UpsertDetail(context.Background(), detail.Detail{GUID: "p1"}))
}

func TestOpenConfiguresPool(t *testing.T) {
	st, err := Open("postgres://u@127.0.0.1:1/none?sslmode=disable", 7, 3)
	require.NoError(t, err)
	defer st.Close()
	assert.Equal(t, 7, st.DB().Stats().MaxOpenConnections)
}
