package health

import (
	"net/http"

	"github.com/dmitrymomot/idlesession/core/response"
)

// Liveness reports that the process is serving.
func Liveness(w http.ResponseWriter, r *http.Request) {
	response.Render(w, r, response.StringWithStatus("ALIVE", http.StatusOK))
}
