package clients

type Repo interface {
	Upsert(consumer *Consumer) error
	Delete(consumerID string) error
	Get(consumerID string) (*Consumer, error)
	GetByKey(key string) (*Consumer, error)
	List(offset, limit int) ([]*Consumer, error)
}
