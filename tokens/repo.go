package tokens

type RequestTokenRepo interface {
	Upsert(token *RequestToken) error
	Delete(token string) error
	Get(token string) (*RequestToken, error)
}

type AccessTokenRepo interface {
	Upsert(token *AccessToken) error
	Delete(token string) error
	Get(token string) (*AccessToken, error)
	ListByUserID(userID string) ([]*AccessToken, error)
}
