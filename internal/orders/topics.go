package orders

const TopicOrderCreated = "order.created"

// Partition key = order_id, supaya event untuk satu order tetap urut.
func PartitionKey(orderID string) []byte { return []byte(orderID) }
