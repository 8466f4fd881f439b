package handler

import (
	"fmt"
	"net/http"

	"github.com/pkordes/bootcamp-api/internal/domain"
)

// bootcampNotFound is the error for a missing or malformed bootcamp id.
// The handler supplies it because it is the layer that knows what was
// being looked up.
func bootcampNotFound(id string) *domain.Error {
	return domain.NewError(fmt.Sprintf("No Bootcamp found with an id %s", id), http.StatusNotFound)
}

func zipcodeNotFound(zipcode string) *domain.Error {
	return domain.NewError(fmt.Sprintf("No location found for zipcode %s", zipcode), http.StatusNotFound)
}

func invalidDistance(raw string) *domain.Error {
	return domain.NewError(fmt.Sprintf("Invalid distance %q: must be a non-negative number of miles", raw), http.StatusBadRequest)
}
