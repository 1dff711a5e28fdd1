package userstore

import (
	"time"

	"github.com/uptrace/bun"

	"github.com/ritik4ever/cryptoanalyst-ai-backend/pkg/user"
)

// UserDao is a data access object that maps directly to the 'users' table in PostgreSQL.
type UserDao struct {
	bun.BaseModel `bun:"table:users,alias:u"`
	ID            string    `bun:"id,pk,type:uuid"`
	Email         string    `bun:"email,unique,notnull,type:varchar(255)"`
	WalletID      *string   `bun:"wallet_id,type:varchar(255)"`
	CreatedAt     time.Time `bun:"created_at,nullzero,default:current_timestamp"`
}

// toUserDao converts a user.User to UserDao.
func toUserDao(usr *user.User) *UserDao {
	dao := &UserDao{
		ID:        usr.ID,
		Email:     usr.Email,
		CreatedAt: usr.CreatedAt,
	}

	if usr.WalletID != "" {
		dao.WalletID = &usr.WalletID
	}

	return dao
}

// toUser converts a UserDao to user.User.
func toUser(dao *UserDao) *user.User {
	usr := &user.User{
		ID:        dao.ID,
		Email:     dao.Email,
		CreatedAt: dao.CreatedAt,
	}

	if dao.WalletID != nil {
		usr.WalletID = *dao.WalletID
	}

	return usr
}
