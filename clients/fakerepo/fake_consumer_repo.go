package fakeconsumerrepo

import (
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/oauthkit/go-oauth1-server/clients"
	apperrors "github.com/oauthkit/go-oauth1-server/internal/errors"
)

var _ clients.Repo = (*FakeConsumerRepo)(nil)

type FakeConsumerRepo struct {
	consumers map[string]*clients.Consumer
	keyIds    map[string]string // consumer key to id
	lock      sync.RWMutex
}

func NewFakeConsumerRepo() *FakeConsumerRepo {
	return &FakeConsumerRepo{
		consumers: make(map[string]*clients.Consumer),
		keyIds:    make(map[string]string),
	}
}

func (r *FakeConsumerRepo) Upsert(consumer *clients.Consumer) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	if consumer.ID == "" {
		consumer.ID = uuid.New().String()
	}
	r.consumers[consumer.ID] = consumer
	r.keyIds[consumer.Key] = consumer.ID
	return nil
}

func (r *FakeConsumerRepo) Delete(consumerID string) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	consumer, ok := r.consumers[consumerID]
	if !ok {
		return nil
	}
	delete(r.keyIds, consumer.Key)
	delete(r.consumers, consumerID)
	return nil
}

func (r *FakeConsumerRepo) Get(consumerID string) (*clients.Consumer, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()
	consumer, ok := r.consumers[consumerID]
	if !ok {
		return nil, apperrors.ErrConsumerNotFound
	}
	return consumer, nil
}

func (r *FakeConsumerRepo) GetByKey(key string) (*clients.Consumer, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()
	id, ok := r.keyIds[key]
	if !ok {
		return nil, apperrors.ErrConsumerNotFound
	}
	return r.consumers[id], nil
}

func (r *FakeConsumerRepo) List(offset, limit int) ([]*clients.Consumer, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	consumers := make([]*clients.Consumer, 0)
	for _, v := range r.consumers {
		consumers = append(consumers, v)
	}

	sort.Slice(consumers, func(i, j int) bool {
		return consumers[i].ID < consumers[j].ID
	})

	if offset > len(consumers) {
		return nil, nil
	}
	end := offset + limit
	if end > len(consumers) {
		end = len(consumers)
	}
	return consumers[offset:end], nil
}
