package schools

import (
	"context"
	"errors"
	"strings"

	webi18n "github.com/louisbranch/schoolfinder/internal/services/web/i18n"
	"github.com/louisbranch/schoolfinder/internal/services/web/lookup"
	apperrors "github.com/louisbranch/schoolfinder/internal/services/web/platform/errors"
	webtemplates "github.com/louisbranch/schoolfinder/internal/services/web/templates"
)

var errLookupUnavailable = errors.New("schools: lookup finder is required")

// searchInput holds the submitted form values.
type searchInput struct {
	Postcode   string
	NumSchools string
}

type service struct {
	finder lookup.Finder
}

func newService(finder lookup.Finder) service {
	return service{finder: finder}
}

// validate rejects blank fields before any network call. The postcode is
// reported first when both are missing. Non-blank values are forwarded
// exactly as submitted; the lookup endpoint judges their content.
func (s service) validate(in searchInput) (lookup.Request, error) {
	if strings.TrimSpace(in.Postcode) == "" {
		return lookup.Request{}, apperrors.InvalidField(webtemplates.FieldPostcode, webi18n.KeyPromptRequired, "postcode is required")
	}
	if strings.TrimSpace(in.NumSchools) == "" {
		return lookup.Request{}, apperrors.InvalidField(webtemplates.FieldNumSchools, webi18n.KeyPromptRequired, "number of schools is required")
	}
	return lookup.Request{Postcode: in.Postcode, NumSchools: in.NumSchools}, nil
}

// search performs the lookup and maps the answer to a result state. The
// returned error is non-nil only for request failures; the state is always
// renderable.
func (s service) search(ctx context.Context, req lookup.Request) (webtemplates.ResultState, error) {
	resp, err := s.finder.FindSchools(ctx, req)
	if err != nil {
		return webtemplates.ResultState{Kind: webtemplates.ResultFailure}, classifyLookupError(err)
	}
	if resp.Failed() {
		return webtemplates.ResultState{Kind: webtemplates.ResultLookupError, Message: resp.Error}, nil
	}
	return webtemplates.ResultState{Kind: webtemplates.ResultSchools, Schools: resp.Schools}, nil
}

func classifyLookupError(err error) error {
	var reqErr *lookup.RequestError
	if errors.As(err, &reqErr) && reqErr.Op == lookup.OpBreaker {
		return apperrors.Wrap(apperrors.KindUnavailable, webi18n.KeyErrorGeneric, err)
	}
	return apperrors.Wrap(apperrors.KindUpstream, webi18n.KeyErrorGeneric, err)
}
