package controllers

import (
	"errors"
	"fadebot/api/typing"
	"fadebot/bot"
	"fadebot/service"
	"fadebot/storage"
	"fadebot/utils"
	"github.com/kataras/iris/v12"
	"github.com/shopspring/decimal"
	"time"
)

// StatusReporter exposes the scheduler state.
type StatusReporter interface {
	Status() bot.Status
}

// Services are the dependencies shared by every controller.
type Services struct {
	Collector *service.ServiceCollector
	Generator *service.ServiceGenerator
	Lifecycle *service.ServiceLifecycle
	Query     *service.ServiceQuery
	Scheduler StatusReporter

	LoserLimit      int
	MinAccountValue decimal.Decimal
	Retention       time.Duration
}

type BaseController struct {
	*Services
}

func (c *BaseController) Success(ctx iris.Context, message string, data interface{}) error {
	return ctx.JSON(typing.Response{
		Status:  typing.StatusSuccess,
		Message: message,
		Data:    data,
	})
}

func (c *BaseController) SuccessList(ctx iris.Context, data interface{}, count int) error {
	return ctx.JSON(typing.Response{
		Status: typing.StatusSuccess,
		Data:   data,
		Count:  &count,
	})
}

// Fail maps err to an HTTP status and writes the error envelope.
func (c *BaseController) Fail(ctx iris.Context, err error) error {
	code := iris.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrInvalidAddress):
		code = iris.StatusBadRequest
	case errors.Is(err, storage.ErrNotFound):
		code = iris.StatusNotFound
	}
	return c.FailWithCode(ctx, code, err.Error())
}

func (c *BaseController) FailWithCode(ctx iris.Context, code int, message string) error {
	if code >= iris.StatusInternalServerError {
		utils.Log.Errorf("[API] %s %s: %s", ctx.Method(), ctx.Path(), message)
	}
	ctx.StatusCode(code)
	return ctx.JSON(typing.Response{
		Status:  typing.StatusError,
		Message: message,
	})
}
