package forpus

import (
	"context"
	"fmt"
	"strconv"

	"github.com/tidwall/gjson"
)

// Resource is one of the API's collections. Its value is the URL path segment.
type Resource string

const (
	Securities    Resource = "securities"
	SecurityTypes Resource = "security_types"
	Frequencies   Resource = "frequencies"
	PriceTypes    Resource = "price_types"
	Prices        Resource = "prices"
	TimeWeights   Resource = "time_weights"
	TimeVolumes   Resource = "time_volumes"
)

// payload keys, i.e. the member name a resource's documents are nested under
var resourceKeys = map[Resource]string{
	Securities:    "security",
	SecurityTypes: "security_type",
	Frequencies:   "frequency",
	PriceTypes:    "price_type",
	Prices:        "price",
	TimeWeights:   "time_weight",
	TimeVolumes:   "time_volume",
}

// Resources returns every collection in a stable order.
func Resources() []Resource {
	return []Resource{Securities, SecurityTypes, Frequencies, PriceTypes, Prices, TimeWeights, TimeVolumes}
}

// Path returns the collection's path below the API root.
func (r Resource) Path() string {
	return string(r)
}

// Key returns the payload member documents of this resource are nested under,
// e.g. "security" for Securities.
func (r Resource) Key() string {
	return resourceKeys[r]
}

// Valid reports whether r is a known collection.
func (r Resource) Valid() bool {
	_, ok := resourceKeys[r]
	return ok
}

// ResourceForKey maps a payload key back to its collection.
func ResourceForKey(key string) (Resource, bool) {
	for r, k := range resourceKeys {
		if k == key {
			return r, true
		}
	}
	return "", false
}

// PayloadID extracts the member id an update payload carries at "<key>.id".
// Numeric strings are accepted.
func PayloadID(r Resource, payload []byte) (int64, error) {
	if !r.Valid() {
		return 0, ErrInvalidPayload.New(fmt.Sprintf("unknown resource %q", r))
	}
	field := r.Key() + ".id"
	res := gjson.GetBytes(payload, field)
	switch res.Type {
	case gjson.Number:
		return res.Int(), nil
	case gjson.String:
		id, err := strconv.ParseInt(res.Str, 10, 64)
		if err != nil {
			return 0, ErrInvalidPayload.MsgErr(fmt.Sprintf("%s is not an integer", field), err)
		}
		return id, nil
	default:
		return 0, ErrInvalidPayload.New(fmt.Sprintf("%s is required for update", field))
	}
}

// List returns every member of r.
func (c *Client) List(ctx context.Context, r Resource) (*Response, error) {
	return c.Get(ctx, r.Path(), nil)
}

// Create adds a member to r. The payload nests the document under r.Key().
func (c *Client) Create(ctx context.Context, r Resource, payload any) (*Response, error) {
	return c.Post(ctx, r.Path(), payload)
}

// Update patches the member of r whose id the payload carries at "<key>.id".
// The whole payload is sent as the request body.
func (c *Client) Update(ctx context.Context, r Resource, payload any) (*Response, error) {
	data, err := marshalPayload(payload)
	if err != nil {
		return nil, err
	}
	id, err := PayloadID(r, data)
	if err != nil {
		return nil, err
	}
	return c.Patch(ctx, r.Path(), id, data)
}

// Remove deletes member id of r.
func (c *Client) Remove(ctx context.Context, r Resource, id int64) (*Response, error) {
	return c.Delete(ctx, r.Path(), id)
}
