package httputil

import (
	"fadebot/utils"
	"io"
)

func BodyCloser(Body io.ReadCloser) {
	err := Body.Close()
	if err != nil {
		utils.Log.Errorf("http response error:%s", err.Error())
		return
	}
}
