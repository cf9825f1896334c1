package ioc_test

import (
	"reflect"

	"github.com/thornwire/ioc/mock"
)

func typeOfDatabase() reflect.Type {
	return reflect.TypeOf((*mock.Database)(nil)).Elem()
}
