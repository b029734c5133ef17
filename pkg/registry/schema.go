package registry

// ActivityRegistry is the catalog of job types the worker manager subscribes to.
type ActivityRegistry struct {
	Version    string     `json:"version"`
	Activities []Activity `json:"activities"`
}

// Activity describes one Zeebe job type. InputSchema gates incoming job
// variables and OutputSchema gates the variables a worker completes with.
type Activity struct {
	ID                   string                 `json:"id"`
	TaskType             string                 `json:"taskType"`
	Category             string                 `json:"category"`
	Description          string                 `json:"description"`
	ImplementationStatus string                 `json:"implementationStatus"`
	Timeout              string                 `json:"timeout"`
	ErrorCodes           []string               `json:"errorCodes"`
	InputSchema          map[string]interface{} `json:"inputSchema"`
	OutputSchema         map[string]interface{} `json:"outputSchema"`
}
