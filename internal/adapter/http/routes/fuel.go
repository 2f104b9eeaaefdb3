package routes

import (
	"fuelquota/internal/adapter/http/handlers"

	"github.com/gin-gonic/gin"
)

const (
	PathFuel         = "/fuel"
	PathVehicles     = "/vehicles"
	PathTransactions = "/transactions"
)

func addFuelRoutes(
	rg *gin.RouterGroup,
	vehicleHandler *handlers.VehicleHandler,
	dispenseHandler *handlers.DispenseHandler,
	transactionHandler *handlers.TransactionHandler,
) {
	fuel := rg.Group(PathFuel)
	{
		// Station-terminal flow: quota check by scanned token, then dispense.
		fuel.GET("/quota/:token", dispenseHandler.QuotaByToken)
		fuel.POST("/dispense", dispenseHandler.Dispense)
	}

	vehicles := rg.Group(PathVehicles)
	{
		vehicles.POST("", vehicleHandler.Register)
		vehicles.GET("/:vehicle_id", vehicleHandler.GetByID)
		vehicles.PATCH("/:vehicle_id/activate", vehicleHandler.Activate)
		vehicles.PATCH("/:vehicle_id/deactivate", vehicleHandler.Deactivate)
		vehicles.GET("/:vehicle_id/transactions", transactionHandler.History)
	}

	transactions := rg.Group(PathTransactions)
	{
		transactions.POST("/:transaction_id/cancel", transactionHandler.Cancel)
	}
}
