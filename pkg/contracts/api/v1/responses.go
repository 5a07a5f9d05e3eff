package api

// Response is the success envelope of every JSON endpoint.
type Response struct {
	Status string      `json:"status"`
	Data   interface{} `json:"data"`
	Count  *int        `json:"count,omitempty"`
}

// Success wraps data in the success envelope.
func Success(data interface{}) Response {
	return Response{Status: "success", Data: data}
}

// SuccessList wraps a collection and reports its length.
func SuccessList(data interface{}, count int) Response {
	return Response{Status: "success", Data: data, Count: &count}
}

// PlotTypeInfo describes one entry of the plot type menu.
type PlotTypeInfo struct {
	Name      string `json:"name"`
	RequiresY bool   `json:"requires_y"`
}
