package repository

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockStore struct{ mock.Mock }

func (m *mockStore) Get(ctx context.Context, c Collection) ([]byte, error) {
	args := m.Called(ctx, c)
	raw, _ := args.Get(0).([]byte)
	return raw, args.Error(1)
}

func (m *mockStore) Put(ctx context.Context, c Collection, payload []byte) error {
	return m.Called(ctx, c, payload).Error(0)
}

type item struct {
	ID string `json:"id"`
}

func TestLoad(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name    string
		raw     []byte
		getErr  error
		want    []item
		wantErr error
	}{
		{name: "never written", raw: nil, want: []item{}},
		{name: "blank", raw: []byte("  \n"), want: []item{}},
		{name: "null", raw: []byte("null"), want: []item{}},
		{name: "empty array", raw: []byte("[]"), want: []item{}},
		{name: "items", raw: []byte(`[{"id":"a"},{"id":"b"}]`), want: []item{{ID: "a"}, {ID: "b"}}},
		{name: "truncated", raw: []byte(`[{"id":"a"`), wantErr: ErrCorrupt},
		{name: "object instead of array", raw: []byte(`{"id":"a"}`), wantErr: ErrCorrupt},
		{name: "store failure", getErr: errors.New("disk gone")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &mockStore{}
			s.On("Get", ctx, Players).Return(tt.raw, tt.getErr)

			got, err := Load[item](ctx, s, Players)
			switch {
			case tt.getErr != nil:
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.getErr)
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Contains(t, err.Error(), "players")
			default:
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}
			s.AssertExpectations(t)
		})
	}
}

func TestSave(t *testing.T) {
	ctx := context.Background()

	t.Run("nil slice is stored as empty array", func(t *testing.T) {
		s := &mockStore{}
		s.On("Put", ctx, Matches, []byte("[]")).Return(nil)
		require.NoError(t, Save[item](ctx, s, Matches, nil))
		s.AssertExpectations(t)
	})

	t.Run("store failure is wrapped", func(t *testing.T) {
		s := &mockStore{}
		boom := errors.New("boom")
		s.On("Put", ctx, Matches, mock.Anything).Return(boom)
		err := Save(ctx, s, Matches, []item{{ID: "x"}})
		assert.ErrorIs(t, err, boom)
		assert.Contains(t, err.Error(), "save matches")
	})
}

func TestCollections(t *testing.T) {
	assert.Len(t, Collections(), 6)
	assert.True(t, MatchPlans.Valid())
	assert.Equal(t, "savedInsights", string(SavedInsights))
	assert.False(t, Collection("teams").Valid())
}

func TestMapPgError(t *testing.T) {
	plain := errors.New("plain")
	tests := []struct {
		name string
		in   error
		want error
	}{
		{"nil", nil, nil},
		{"unique", &pgconn.PgError{Code: pgerrcode.UniqueViolation}, ErrAlreadyExists},
		{"fk", &pgconn.PgError{Code: pgerrcode.ForeignKeyViolation}, ErrConflict},
		{"bad json", &pgconn.PgError{Code: pgerrcode.InvalidTextRepresentation}, ErrCorrupt},
		{"not an array", &pgconn.PgError{Code: pgerrcode.CheckViolation}, ErrCorrupt},
		{"passthrough", plain, plain},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MapPgError(tt.in))
		})
	}
}

func TestPaginate(t *testing.T) {
	items := []int{1, 2, 3, 4, 5, 6, 7}

	res := Paginate(items, Page{Limit: 3})
	assert.Equal(t, []int{1, 2, 3}, res.Items)
	assert.Equal(t, 7, res.Total)

	res = Paginate(items, Page{Limit: 3, Offset: 6})
	assert.Equal(t, []int{7}, res.Items)

	res = Paginate(items, Page{Limit: 3, Offset: 10})
	assert.Empty(t, res.Items)
	assert.NotNil(t, res.Items)
	assert.Equal(t, 7, res.Total)

	assert.Equal(t, Page{Limit: DefaultPageLimit}, Page{Limit: -1, Offset: -4}.Normalize())
	assert.Equal(t, Page{Limit: MaxPageLimit, Offset: 2}, Page{Limit: 1 << 20, Offset: 2}.Normalize())
}

func TestPaginate_HugeLimit(t *testing.T) {
	res := Paginate([]int{1, 2, 3}, Page{Limit: math.MaxInt, Offset: 1})
	assert.Equal(t, []int{2, 3}, res.Items)
	assert.Equal(t, 3, res.Total)

	res = Paginate([]int{1, 2, 3}, Page{Limit: math.MaxInt, Offset: math.MaxInt})
	assert.Empty(t, res.Items)
}
