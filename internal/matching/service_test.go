package matching_test

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/fundsio/funds/internal/matching"
	"github.com/fundsio/funds/internal/transaction"
)

func TestService_Suggest(t *testing.T) {
	owner := uuid.New()

	tests := []struct {
		name        string
		description string
		setupMock   func(repo *matching.MockRepository)
		want        string
		wantErr     bool
	}{
		{
			name:        "Match",
			description: " CONTINENTE LISBOA ",
			setupMock: func(repo *matching.MockRepository) {
				repo.EXPECT().FindMatch(gomock.Any(), owner, "CONTINENTE LISBOA").Return("groceries", nil)
			},
			want: "groceries",
		},
		{
			name:        "BlankSkipsLookup",
			description: "   ",
		},
		{
			name:        "RepoError",
			description: "UBER",
			setupMock: func(repo *matching.MockRepository) {
				repo.EXPECT().FindMatch(gomock.Any(), owner, "UBER").Return("", errors.New("db down"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			repo := matching.NewMockRepository(ctrl)

			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			got, err := matching.NewService(repo).Suggest(t.Context(), owner, tt.description)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestService_Learn(t *testing.T) {
	owner := uuid.New()

	tests := []struct {
		name      string
		pattern   string
		category  string
		setupMock func(repo *matching.MockRepository)
		wantErr   error
	}{
		{
			name:     "Success",
			pattern:  "uber ",
			category: " transport",
			setupMock: func(repo *matching.MockRepository) {
				repo.EXPECT().CreateMapping(gomock.Any(), owner, "uber", "transport").Return(nil)
			},
		},
		{
			name:     "MissingCategory",
			pattern:  "uber",
			category: "",
			wantErr:  matching.ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			repo := matching.NewMockRepository(ctrl)

			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			err := matching.NewService(repo).Learn(t.Context(), owner, tt.pattern, tt.category)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			assert.NoError(t, err)
		})
	}
}

func TestService_Categorize(t *testing.T) {
	owner := uuid.New()
	ctrl := gomock.NewController(t)
	repo := matching.NewMockRepository(ctrl)

	repo.EXPECT().FindMatch(gomock.Any(), owner, "UBER TRIP").Return("transport", nil)
	repo.EXPECT().FindMatch(gomock.Any(), owner, "UNKNOWN").Return("", nil)

	rows := []transaction.CreateParams{
		{Description: "UBER TRIP"},
		{Description: "SALARY", Category: "work"},
		{Description: "UNKNOWN"},
	}

	require.NoError(t, matching.NewService(repo).Categorize(t.Context(), owner, rows))

	assert.Equal(t, "transport", rows[0].Category)
	assert.Equal(t, "work", rows[1].Category)
	assert.Empty(t, rows[2].Category)
}
