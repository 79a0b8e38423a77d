package validates

import (
	"fadebot/api/typing"
	"fadebot/utils"
	"fadebot/utils/validate"
	"github.com/kataras/iris/v12"
)

func collectFieldTrans() map[string]string {
	return map[string]string{
		"Addresses.required": "addresses must be required",
		"Addresses.min":      "addresses must contain at least one address",
		"Addresses.max":      "at most 100 addresses per request",
	}
}

// CollectRequestValidate reads and validates the collect body.
func CollectRequestValidate(ctx iris.Context) (typing.CollectRequest, error) {
	request := typing.CollectRequest{}
	if err := ctx.ReadJSON(&request); err != nil {
		utils.Log.Debugf("[API] read collect body: %v", err)
		return request, err
	}
	return request, validate.Run(request, collectFieldTrans())
}
