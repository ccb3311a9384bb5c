package reservations

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gite/internal/reservations/repository"
	"gite/pkg/client"
	"gite/pkg/model"
	"gite/test/integration/testutil"
)

type bookingResult struct {
	Data struct {
		Outcome     string            `json:"outcome"`
		Persisted   bool              `json:"persisted"`
		Reservation model.Reservation `json:"reservation"`
	} `json:"data"`
}

func booking(plan, in, out string) map[string]any {
	return map[string]any{
		"name":      "Marie Dupont",
		"email":     "marie@example.com",
		"phone":     "06 12 34 56 78",
		"check_in":  in,
		"check_out": out,
		"guests":    2,
		"plan_name": plan,
	}
}

func TestBookingFlow(t *testing.T) {
	env := testutil.NewTestEnv(t)
	mongo, c := env.Setup(t)
	defer env.Cleanup(t, mongo)
	ctx := context.Background()

	t.Run("plan mismatch is rejected", func(t *testing.T) {
		resp, err := c.POST(ctx, "/api/bookings", booking("JOURNALIER", "2031-07-10", "2031-07-12"))
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode, client.GetErrorMessage(resp))
		assert.Zero(t, mongo.CountDocuments(t, repository.CollectionName))
	})

	var id string
	t.Run("valid booking is stored pending", func(t *testing.T) {
		resp, err := c.POST(ctx, "/api/bookings", booking("2 NUITS", "2031-07-10", "2031-07-13"))
		require.NoError(t, err)
		require.Equal(t, http.StatusCreated, resp.StatusCode, client.GetErrorMessage(resp))

		var result bookingResult
		require.NoError(t, resp.DecodeJSON(&result))
		assert.True(t, result.Data.Persisted)
		assert.Equal(t, model.StatusPending, result.Data.Reservation.Status)
		assert.Equal(t, "+33612345678", result.Data.Reservation.Phone)
		id = result.Data.Reservation.ID
		require.NotEmpty(t, id)
	})

	t.Run("pending stays do not block dates", func(t *testing.T) {
		resp, err := c.GET(ctx, "/api/availability/check?date=2031-07-11")
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Contains(t, string(resp.Body), `"reserved":false`)
	})

	t.Run("confirmed stays block dates", func(t *testing.T) {
		admin := env.AdminClient(t)
		resp, err := admin.Upload(ctx, http.MethodPatch, "/api/admin/reservations/id/"+id+"/status",
			strings.NewReader(`{"status":"confirmed"}`), "application/json", nil)
		require.NoError(t, err)
		require.Equal(t, http.StatusNoContent, resp.StatusCode, client.GetErrorMessage(resp))

		for _, day := range []string{"2031-07-10", "2031-07-13"} {
			resp, err = c.GET(ctx, "/api/availability/check?date="+day)
			require.NoError(t, err)
			assert.Contains(t, string(resp.Body), `"reserved":true`, day)
		}

		resp, err = admin.GET(ctx, "/api/admin/calendar?from=2031-07-13&to=2031-07-13")
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Contains(t, string(resp.Body), `"departure"`)
	})

	t.Run("admin routes need a token", func(t *testing.T) {
		resp, err := c.GET(ctx, "/api/admin/reservations")
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}
