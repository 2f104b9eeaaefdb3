package routes

import (
	"log"
	"os"
	"strconv"
	"strings"

	_ "fuelquota/docs" // This will be auto-generated
	"fuelquota/internal/adapter/http/handlers"
	repository2 "fuelquota/internal/adapter/persistence/repository"
	"fuelquota/internal/infrastructure/database"
	"fuelquota/internal/infrastructure/registry"
	"fuelquota/internal/usecase"
	"fuelquota/internal/usecase/interfaces"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

var router = gin.Default()

const PORT = 8080

// Run will start the server
func Run() {
	setMiddlewares()

	// Swagger documentation endpoint
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	getRoutes()

	err := router.Run(":" + strconv.Itoa(PORT))
	if err != nil {
		log.Fatalf("Failed to startup the application: %v", err.Error())
	}
}

func getRoutes() {
	var (
		vehicleRepo interfaces.IVehicleRepository
		txRepo      interfaces.ITransactionRepository
		ledger      interfaces.IQuotaLedger
	)

	// PERSISTENCE_DRIVER=memory keeps everything in-process, for local runs
	// without a DynamoDB endpoint.
	if strings.EqualFold(os.Getenv("PERSISTENCE_DRIVER"), "memory") {
		log.Printf("[routes] using in-memory persistence")
		memVehicles := repository2.NewMemoryVehicleRepository()
		memTransactions := repository2.NewMemoryTransactionRepository()
		vehicleRepo = memVehicles
		txRepo = memTransactions
		ledger = repository2.NewMemoryQuotaLedger(memVehicles, memTransactions)
	} else {
		ddb := database.ConnectDynamoDB()
		vehicleRepo = repository2.NewVehicleDynamoRepository(ddb)
		txRepo = repository2.NewTransactionDynamoRepository(ddb)
		ledger = repository2.NewQuotaLedgerDynamoRepository(ddb)
	}

	var registryGateway interfaces.IRegistryGateway
	dmtGateway, err := registry.NewDMTGateway()
	if err != nil {
		log.Printf("DMT registry gateway not configured: %v", err)
	} else {
		registryGateway = dmtGateway
	}

	binder := usecase.NewQRBinder(vehicleRepo)
	quotaPolicy := usecase.NewQuotaPolicyFromEnv()

	vehicleUseCase := usecase.NewVehicleUseCase(vehicleRepo, registryGateway, binder, quotaPolicy)
	dispenseUseCase := usecase.NewDispenseUseCase(binder, ledger)
	transactionUseCase := usecase.NewTransactionUseCase(txRepo, vehicleRepo, ledger)

	vehicleHandler := handlers.NewVehicleHandler(vehicleUseCase)
	dispenseHandler := handlers.NewDispenseHandler(dispenseUseCase)
	transactionHandler := handlers.NewTransactionHandler(transactionUseCase)

	v1 := router.Group("/v1")
	addPingRoutes(v1)
	addFuelRoutes(v1, vehicleHandler, dispenseHandler, transactionHandler)
}

func setMiddlewares() {
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		log.Printf("Recovered from panic: %v", recovered)
		c.AbortWithStatus(500)
	}))
}
