package api

type (
	// ErrorResponse is the JSON body returned by failing API handlers
	ErrorResponse struct {
		Error  string `json:"error"`
		Status int    `json:"status"`
	}

	// IngestResult is returned by the ingestion gateway on success
	IngestResult struct {
		EventType string `json:"event"`
		RunID     string `json:"id"`
		Accepted  bool   `json:"accepted"`
	}

	// IngestResponse is the HTTP shape of an accepted ingestion
	IngestResponse struct {
		Status string `json:"status"`
		Event  string `json:"event"`
		ID     string `json:"id"`
	}

	// RunRequest starts a flow run against an explicit event
	RunRequest struct {
		Event  *Event `json:"event"`
		FlowID FlowID `json:"flow_id"`
		DryRun bool   `json:"dry_run"`
	}

	// FlowSavedResponse is returned after a flow upsert
	FlowSavedResponse struct {
		ID FlowID `json:"id"`
	}

	// FlowPublishedResponse is returned after sealing a flow version
	FlowPublishedResponse struct {
		SealedID string `json:"sealed_id"`
	}

	// FlowsListResponse lists stored flows
	FlowsListResponse struct {
		Flows []*Flow `json:"flows"`
		Count int     `json:"count"`
	}

	// NodeTypesResponse is the static node-type catalogue
	NodeTypesResponse struct {
		NodeTypes []NodeTypeDescriptor `json:"node_types"`
	}
)

const StatusAccepted = "accepted"
