package produce

import amqp "github.com/rabbitmq/amqp091-go"

type Produce struct {
	AssetEvents *AssetEventService
}

var produceInstance *Produce

func InitProduce(channel *amqp.Channel) *Produce {
	if produceInstance != nil {
		return produceInstance
	}

	assetEvents := InitAssetEventService(channel)
	if assetEvents == nil {
		panic("Failed to initialize Asset event service")
	}

	produceInstance = &Produce{
		AssetEvents: assetEvents,
	}

	return produceInstance
}

func GetProduce() *Produce {
	if produceInstance == nil {
		panic("Produce not initialized. Call InitProduce() first.")
	}
	return produceInstance
}
