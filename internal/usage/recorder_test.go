package usage

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/require"
)

func TestDailyTotalTokens(t *testing.T) {
	d := Daily{InputTokens: 10, OutputTokens: 25}
	require.Equal(t, int64(35), d.TotalTokens())
}

func TestRecordUsageSkipsZeroTokenCalls(t *testing.T) {
	r := NewRecorder(nil)
	require.NoError(t, r.RecordUsage(context.Background(), 0, 0, 0))
}

func TestRecorderAgainstRealDatabase(t *testing.T) {
	_ = godotenv.Load("../../.env")
	_ = godotenv.Load("../../example.env")

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	defer pool.Close()

	r := NewRecorder(pool)
	require.NoError(t, r.InitSchema(ctx))
	require.NoError(t, r.RecordUsage(ctx, 100, 50, 10))
	require.NoError(t, r.RecordUsage(ctx, 100, 50, 10))

	today, err := r.GetDaily(ctx, time.Now())
	require.NoError(t, err)
	require.NotNil(t, today)
	require.Equal(t, int64(200), today.InputTokens)
	require.Equal(t, int64(100), today.OutputTokens)
	require.Equal(t, int64(20), today.ReasoningTokens)
	require.Equal(t, int64(2), today.RequestCount)

	total, err := r.GetTotal(ctx, 30)
	require.NoError(t, err)
	require.GreaterOrEqual(t, total.InputTokens, int64(200))

	recent, err := r.GetRecent(ctx, 7)
	require.NoError(t, err)
	require.NotEmpty(t, recent)
}
