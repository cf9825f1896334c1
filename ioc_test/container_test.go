package ioc_test

import (
	"testing"

	"github.com/stretchr/testify/suite"
	"github.com/thornwire/ioc"
	"github.com/thornwire/ioc/mock"
)

type ContainerTestSuite struct {
	suite.Suite
	c *ioc.Container
}

func (s *ContainerTestSuite) SetupTest() {
	s.c = ioc.New()
}

func (s *ContainerTestSuite) TestBasicResolution() {
	s.NoError(ioc.RegisterAs[mock.Database, *mock.MockDB](s.c, true, mock.NewMockDB))
	s.NoError(s.c.Run())

	db, err := ioc.Resolve[mock.Database](s.c)
	s.NoError(err)
	s.NotNil(db)
	s.True(db.IsConnected(), "database should be connected")
}

func (s *ContainerTestSuite) TestSelfRegistration() {
	s.NoError(s.c.Run())

	resolved, err := ioc.Resolve[*ioc.Container](s.c)
	s.NoError(err)
	s.Same(s.c, resolved)
}

func (s *ContainerTestSuite) TestNestedDependencies() {
	s.NoError(ioc.RegisterAs[mock.Database, *mock.MockDB](s.c, true, mock.NewMockDB))
	s.NoError(ioc.RegisterAs[mock.Cache, *mock.MockCache](s.c, true, mock.NewMockCache))
	s.NoError(s.c.Run())

	cache, err := ioc.Resolve[mock.Cache](s.c)
	s.NoError(err)
	s.NotNil(cache.(*mock.MockCache).DB)
	s.True(cache.(*mock.MockCache).DB.IsConnected())
}

func (s *ContainerTestSuite) TestInstanceRegistrationBypassesConstruction() {
	count := 0
	ctor := func() *mock.MockDB {
		count++
		return mock.NewMockDB()
	}
	s.NoError(ioc.RegisterAs[mock.Database, *mock.MockDB](s.c, true, ctor))

	pre := mock.NewMockDB()
	s.NoError(ioc.RegisterInstance[mock.Database](s.c, pre))
	s.NoError(s.c.Run())

	db, err := ioc.Resolve[mock.Database](s.c)
	s.NoError(err)
	s.Same(pre, db)
	s.Zero(count, "no constructor should run for a registered instance")
}

func (s *ContainerTestSuite) TestIsRegistered() {
	s.False(ioc.IsRegistered[mock.Database](s.c))
	s.NoError(ioc.RegisterAs[mock.Database, *mock.MockDB](s.c, true, mock.NewMockDB))
	s.True(ioc.IsRegistered[mock.Database](s.c))
	s.True(ioc.IsRegistered[*ioc.Container](s.c))
}

func (s *ContainerTestSuite) TestConstructorSelectionPrefersRichest() {
	s.NoError(ioc.RegisterAs[mock.Database, *mock.MockDB](s.c, true, mock.NewMockDB))
	s.NoError(ioc.RegisterAs[mock.Cache, *mock.MockCache](s.c, true, mock.NewMockCache))
	s.NoError(ioc.Register[*mock.Reporter](s.c, false,
		mock.NewReporter0, mock.NewReporter1, mock.NewReporter2))
	s.NoError(s.c.Run())

	r, err := ioc.Resolve[*mock.Reporter](s.c)
	s.NoError(err)
	s.Equal(2, r.Arity)
	s.NotNil(r.DB)
	s.NotNil(r.Cache)
}

func (s *ContainerTestSuite) TestConstructorSelectionFallsBack() {
	s.NoError(ioc.RegisterAs[mock.Database, *mock.MockDB](s.c, true, mock.NewMockDB))
	s.NoError(ioc.Register[*mock.Reporter](s.c, false,
		mock.NewReporter0, mock.NewReporter1, mock.NewReporter2))
	s.NoError(s.c.Run())

	// Cache is unregistered, so the 2-arg candidate fails validation and the
	// 1-arg candidate is selected.
	r, err := ioc.Resolve[*mock.Reporter](s.c)
	s.NoError(err)
	s.Equal(1, r.Arity)
	s.NotNil(r.DB)
	s.Nil(r.Cache)
}

func (s *ContainerTestSuite) TestExplicitArgumentMixing() {
	s.NoError(ioc.RegisterAs[mock.Database, *mock.MockDB](s.c, true, mock.NewMockDB))
	s.NoError(ioc.Register[*mock.Mailer](s.c, false, mock.NewMailer))
	s.NoError(s.c.Run())

	m, err := ioc.Resolve[*mock.Mailer](s.c, "ops@example.com")
	s.NoError(err)
	s.NotNil(m.DB, "dependency should come from the container")
	s.Equal("ops@example.com", m.Addr, "primitive should come from explicit args")
}

func (s *ContainerTestSuite) TestExplicitArgsIgnoredForCachedInstance() {
	pre := mock.NewMockDB()
	s.NoError(ioc.RegisterInstance[mock.Database](s.c, pre))
	s.NoError(s.c.Run())

	db, err := ioc.Resolve[mock.Database](s.c, "ignored", 99)
	s.NoError(err)
	s.Same(pre, db)
}

func (s *ContainerTestSuite) TestUnregisteredConcreteType() {
	s.NoError(s.c.Run())

	db, err := ioc.Resolve[*mock.MockDB](s.c)
	s.NoError(err)
	s.NotNil(db)
	s.False(db.IsConnected(), "zero-constructed value, no constructor ran")

	again, err := ioc.Resolve[*mock.MockDB](s.c)
	s.NoError(err)
	s.NotSame(db, again, "unregistered concrete types are never cached")
}

func (s *ContainerTestSuite) TestInstances() {
	s.NoError(ioc.RegisterAs[mock.Database, *mock.MockDB](s.c, true, mock.NewMockDB))
	s.NoError(ioc.RegisterAs[mock.Cache, *mock.MockCache](s.c, true, mock.NewMockCache))
	s.NoError(s.c.Run())

	dbs, err := ioc.Instances[mock.Database](s.c)
	s.NoError(err)
	s.Len(dbs, 1)

	containers, err := ioc.Instances[*ioc.Container](s.c)
	s.NoError(err)
	s.Len(containers, 1)
	s.Same(s.c, containers[0])
}

func (s *ContainerTestSuite) TestResolveType() {
	s.NoError(ioc.RegisterAs[mock.Database, *mock.MockDB](s.c, true, mock.NewMockDB))
	s.NoError(s.c.Run())

	out, err := s.c.ResolveType(typeOfDatabase())
	s.NoError(err)
	s.IsType(&mock.MockDB{}, out)
}

func TestContainerSuite(t *testing.T) {
	suite.Run(t, new(ContainerTestSuite))
}
