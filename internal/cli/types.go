package cli

import (
	"fmt"
	"strings"

	"github.com/forpus/forpus/pkg/forpus"
)

// resourceAliases maps the names accepted on the command line to resources.
var resourceAliases = map[string]forpus.Resource{
	"security":       forpus.Securities,
	"sec":            forpus.Securities,
	"securities":     forpus.Securities,
	"security-type":  forpus.SecurityTypes,
	"security-types": forpus.SecurityTypes,
	"security_type":  forpus.SecurityTypes,
	"security_types": forpus.SecurityTypes,
	"st":             forpus.SecurityTypes,
	"frequency":      forpus.Frequencies,
	"frequencies":    forpus.Frequencies,
	"freq":           forpus.Frequencies,
	"price-type":     forpus.PriceTypes,
	"price-types":    forpus.PriceTypes,
	"price_type":     forpus.PriceTypes,
	"price_types":    forpus.PriceTypes,
	"pt":             forpus.PriceTypes,
	"price":          forpus.Prices,
	"prices":         forpus.Prices,
	"time-weight":    forpus.TimeWeights,
	"time-weights":   forpus.TimeWeights,
	"time_weight":    forpus.TimeWeights,
	"time_weights":   forpus.TimeWeights,
	"tw":             forpus.TimeWeights,
	"time-volume":    forpus.TimeVolumes,
	"time-volumes":   forpus.TimeVolumes,
	"time_volume":    forpus.TimeVolumes,
	"time_volumes":   forpus.TimeVolumes,
	"tv":             forpus.TimeVolumes,
}

// ParseResource maps a resource type string to its resource.
// Handles various aliases for each resource type
func ParseResource(resourceType string) (forpus.Resource, error) {
	r, ok := resourceAliases[strings.ToLower(resourceType)]
	if !ok {
		return "", fmt.Errorf("unknown resource type: %s", resourceType)
	}
	return r, nil
}
