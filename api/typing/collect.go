package typing

type CollectRequest struct {
	Addresses []string `json:"addresses" validate:"required,min=1,max=100,dive,eth_addr"`
}

type CollectResult struct {
	Results   map[string]bool `json:"results"`
	Succeeded int             `json:"succeeded"`
	Failed    int             `json:"failed"`
}
