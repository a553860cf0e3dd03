package controller

import (
	"github.com/alimikegami/point-of-sales/order-placement-service/internal/dto"
	"github.com/alimikegami/point-of-sales/order-placement-service/internal/service"
	"github.com/alimikegami/point-of-sales/order-placement-service/pkg/errs"
	"github.com/alimikegami/point-of-sales/order-placement-service/pkg/response"
	"github.com/alimikegami/point-of-sales/order-placement-service/pkg/utils"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

type Controller struct {
	service service.OrderService
}

func CreateOrderController(e *echo.Group, service service.OrderService, middlewares ...echo.MiddlewareFunc) {
	c := Controller{
		service: service,
	}

	e.POST("/orders", c.PlaceOrder, middlewares...)
	e.GET("/orders/:id", c.GetOrder, middlewares...)
}

func (c *Controller) PlaceOrder(e echo.Context) error {
	payload := dto.OrderRequest{}
	err := e.Bind(&payload)
	if err != nil {
		log.Ctx(e.Request().Context()).Error().Err(err).Str("component", "PlaceOrder").Msg("")
		return response.WriteErrorResponse(e, errs.ErrClient, nil)
	}

	// a signed-in customer can only order for itself
	if tokenCustomer := utils.ExtractTokenCustomer(e); tokenCustomer != "" {
		if payload.CustomerID != "" && payload.CustomerID != tokenCustomer {
			return response.WriteErrorResponse(e, errs.ErrForbidden, nil)
		}
		payload.CustomerID = tokenCustomer
	}

	order, err := c.service.PlaceOrder(e.Request().Context(), payload)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "order placed", dto.NewOrderResponse(order))
}

func (c *Controller) GetOrder(e echo.Context) error {
	order, err := c.service.GetOrder(e.Request().Context(), e.Param("id"))
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	// other customers' orders look the same as missing ones
	if tokenCustomer := utils.ExtractTokenCustomer(e); tokenCustomer != "" && order.CustomerID != tokenCustomer {
		return response.WriteErrorResponse(e, errs.ErrNotFound, nil)
	}

	return response.WriteSuccessResponse(e, "", dto.NewOrderResponse(order))
}
