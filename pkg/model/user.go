package model

import (
	"github.com/cockroachdb/errors"
	"github.com/ssargent/datagen/pkg/codec"
)

// User is a person's profile
type User struct {
	FirstName string `json:"first_name" yaml:"first_name"`
	LastName  string `json:"last_name" yaml:"last_name"`
	Email     string `json:"email" yaml:"email"`
}

// Kind returns KindUser
func (u User) Kind() Kind { return KindUser }

// Size returns the encoded size in bytes
func (u User) Size() (int, error) {
	return stringsSize(KindUser,
		namedString{"first_name", u.FirstName},
		namedString{"last_name", u.LastName},
		namedString{"email", u.Email},
	)
}

// Serialize encodes the user as three length-prefixed strings.
func (u User) Serialize() (*codec.Buffer, error) {
	size, err := u.Size()
	if err != nil {
		return nil, err
	}

	w := newFieldWriter(size)
	w.string(u.FirstName)
	w.string(u.LastName)
	w.string(u.Email)
	return w.finish(KindUser)
}

// DecodeUser parses bytes produced by User.Serialize
func DecodeUser(data []byte) (User, error) {
	var u User
	var err error
	r := codec.NewReader(data)

	if u.FirstName, err = r.ReadString(); err != nil {
		return User{}, errors.Wrap(err, "decode user.first_name")
	}
	if u.LastName, err = r.ReadString(); err != nil {
		return User{}, errors.Wrap(err, "decode user.last_name")
	}
	if u.Email, err = r.ReadString(); err != nil {
		return User{}, errors.Wrap(err, "decode user.email")
	}
	if err := r.Finish(); err != nil {
		return User{}, errors.Wrap(err, "decode user")
	}
	return u, nil
}
