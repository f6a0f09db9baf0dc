package shopify

import (
	"context"
	"strconv"
	"strings"

	"github.com/storelink/backend/internal/domain/outbox"
	"github.com/storelink/backend/internal/domain/store"
)

const sellingPlanCreateMutation = `
mutation sellingPlanGroupCreate($input: SellingPlanGroupInput!) {
  sellingPlanGroupCreate(input: $input) {
    sellingPlanGroup { id sellingPlans(first: 1) { nodes { id } } }
    userErrors { field message }
  }
}`

const sellingPlanUpdateMutation = `
mutation sellingPlanGroupUpdate($id: ID!, $input: SellingPlanGroupInput!) {
  sellingPlanGroupUpdate(id: $id, input: $input) {
    sellingPlanGroup { id sellingPlans(first: 1) { nodes { id } } }
    userErrors { field message }
  }
}`

type sellingPlanPayload struct {
	SellingPlanGroup *struct {
		ID           string `json:"id"`
		SellingPlans struct {
			Nodes []struct {
				ID string `json:"id"`
			} `json:"nodes"`
		} `json:"sellingPlans"`
	} `json:"sellingPlanGroup"`
	UserErrors []userError `json:"userErrors"`
}

// SellingPlanPusher mirrors subscription programs to the remote store as
// selling plan groups.
type SellingPlanPusher struct {
	client *Client
}

// NewSellingPlanPusher creates a selling plan pusher
func NewSellingPlanPusher(client *Client) *SellingPlanPusher {
	return &SellingPlanPusher{client: client}
}

// RecordType implements outbox.Pusher
func (p *SellingPlanPusher) RecordType() outbox.RecordType {
	return outbox.RecordTypeSellingPlan
}

// Push issues one create-or-update mutation for the selling plan group
func (p *SellingPlanPusher) Push(ctx context.Context, rec outbox.Record) outbox.PushResult {
	plan, ok := rec.(*store.SellingPlan)
	if !ok {
		return wrongRecordType(outbox.RecordTypeSellingPlan, rec)
	}

	recurring := map[string]any{
		"interval":      string(plan.Interval),
		"intervalCount": plan.IntervalCount,
	}
	planInput := map[string]any{
		"name":           planLabel(plan),
		"category":       "SUBSCRIPTION",
		"billingPolicy":  map[string]any{"recurring": recurring},
		"deliveryPolicy": map[string]any{"recurring": recurring},
	}
	if !plan.PercentageOff.IsZero() {
		planInput["pricingPolicies"] = []map[string]any{
			{
				"fixed": map[string]any{
					"adjustmentType": "PERCENTAGE",
					"adjustmentValue": map[string]any{
						"percentage": plan.PercentageOff.InexactFloat64(),
					},
				},
			},
		}
	}

	input := map[string]any{
		"name":    plan.Name,
		"options": []string{"Delivery every"},
	}

	variables := map[string]any{"input": input}
	mutation := sellingPlanCreateMutation
	key := "sellingPlanGroupCreate"
	if plan.SyncState.HasRemote() {
		variables["id"] = plan.SyncState.Remote()
		mutation = sellingPlanUpdateMutation
		key = "sellingPlanGroupUpdate"
		if plan.RemotePlanID != "" {
			// Updates inside an existing group must target the plan
			// by its own identifier.
			planInput["id"] = plan.RemotePlanID
			input["sellingPlansToUpdate"] = []map[string]any{planInput}
		} else {
			// The plan identifier was never captured; create a fresh
			// plan in the group and pick up its identifier below.
			input["sellingPlansToCreate"] = []map[string]any{planInput}
		}
	} else {
		input["sellingPlansToCreate"] = []map[string]any{planInput}
	}

	var resp map[string]sellingPlanPayload
	if err := p.client.Do(ctx, mutation, variables, &resp); err != nil {
		return transportFailure(err)
	}

	payload := resp[key]
	if len(payload.UserErrors) > 0 {
		return outbox.PushRejected(mapUserErrors(payload.UserErrors))
	}
	if payload.SellingPlanGroup == nil {
		return transportFailure(ErrInvalidResponse)
	}
	if nodes := payload.SellingPlanGroup.SellingPlans.Nodes; len(nodes) > 0 && plan.RemotePlanID == "" {
		plan.RemotePlanID = nodes[0].ID
	}
	return outbox.PushSucceeded(payload.SellingPlanGroup.ID)
}

func planLabel(p *store.SellingPlan) string {
	unit := strings.ToLower(string(p.Interval))
	if p.IntervalCount == 1 {
		return "Every " + unit
	}
	return "Every " + strconv.Itoa(p.IntervalCount) + " " + unit + "s"
}
