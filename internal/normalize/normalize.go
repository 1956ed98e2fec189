// Package normalize maps source-specific webhook payloads into canonical
// events. Rules are pure functions over the raw payload bytes; no rule
// performs I/O, so every mapping is testable with literal fixtures.
package normalize

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tidwall/gjson"

	"github.com/JermaineMerritt-ai/Super-Codex-AI-sub005/pkg/api"
)

type (
	// Rule maps one source-specific payload shape to a canonical event.
	// Match inspects the hint and raw payload; Map projects the payload
	Rule struct {
		Match  func(hint string, payload []byte) bool
		Map    func(payload []byte) *api.Event
		Source string
	}

	// Normalizer holds the source-specific mapping rules and the
	// passthrough fallback
	Normalizer struct {
		rules []Rule
	}
)

const (
	SourceCommerce = "commerce"
	SourcePartner  = "partner"

	EventOrderCreated  = "order.created"
	EventPartnerUpdate = "partner.update"
)

var ErrInvalidPayload = errors.New("payload is not a JSON object")

// New creates a normalizer with the built-in source rules
func New() *Normalizer {
	return &Normalizer{rules: builtinRules()}
}

// Normalize maps a raw payload from the given source into a canonical
// event. The event-type hint is optional; when no specific rule matches,
// the payload passes through with its own type field or "unknown"
func (n *Normalizer) Normalize(
	source, hint string, payload []byte,
) (*api.Event, error) {
	data, err := decodeObject(payload)
	if err != nil {
		return nil, err
	}

	for _, rule := range n.rules {
		if rule.Source != source {
			continue
		}
		if rule.Match(hint, payload) {
			return rule.Map(payload), nil
		}
	}
	return passthrough(source, data), nil
}

func builtinRules() []Rule {
	return []Rule{
		{
			Source: SourceCommerce,
			Match: func(hint string, payload []byte) bool {
				return hint == EventOrderCreated ||
					gjson.GetBytes(payload, "order.id").Exists()
			},
			Map: mapOrderCreated,
		},
		{
			Source: SourcePartner,
			Match: func(hint string, payload []byte) bool {
				return hint == EventPartnerUpdate ||
					gjson.GetBytes(payload, "partner_id").Exists()
			},
			Map: mapPartnerUpdate,
		},
	}
}

// mapOrderCreated projects a commerce order webhook into the canonical
// shape. The order id doubles as the cross-system correlation id
func mapOrderCreated(payload []byte) *api.Event {
	order := gjson.GetBytes(payload, "order")
	data := api.Data{
		"order_id": order.Get("id").String(),
		"amount":   order.Get("amount").String(),
		"currency": order.Get("currency").String(),
	}
	if email := order.Get("customer.email"); email.Exists() {
		data["email"] = email.String()
	}
	return &api.Event{
		Type:   EventOrderCreated,
		Source: SourceCommerce,
		Data:   data,
		Meta: api.Data{
			api.MetaCorrelationID: fmt.Sprintf(
				"order-%s", order.Get("id").String(),
			),
		},
	}
}

func mapPartnerUpdate(payload []byte) *api.Event {
	data := api.Data{
		"partner_id": gjson.GetBytes(payload, "partner_id").String(),
		"status":     gjson.GetBytes(payload, "status").String(),
	}
	return &api.Event{
		Type:   EventPartnerUpdate,
		Source: SourcePartner,
		Data:   data,
		Meta: api.Data{
			api.MetaCorrelationID: fmt.Sprintf(
				"partner-%s", gjson.GetBytes(payload, "partner_id").String(),
			),
		},
	}
}

// passthrough is the fallback mapping for sources and shapes with no
// specific rule: carry the payload as-is, typed by its own type field
func passthrough(source string, data api.Data) *api.Event {
	eventType := api.EventTypeUnknown
	if t, ok := data["type"].(string); ok && t != "" {
		eventType = t
	}

	meta := api.Data{}
	if id, ok := data["id"].(string); ok && id != "" {
		meta[api.MetaCorrelationID] = fmt.Sprintf("%s-%s", source, id)
	}

	return &api.Event{
		Type:   eventType,
		Source: source,
		Data:   data,
		Meta:   meta,
	}
}

func decodeObject(payload []byte) (api.Data, error) {
	var data api.Data
	if err := json.Unmarshal(payload, &data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	return data, nil
}
