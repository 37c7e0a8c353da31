package ioc

// Capabilities are detected by interface assertion on the live instance.
// The set is closed: these interfaces are the whole contract, there is no
// marker scanning.

// NameAware receives the bean's registered name before any other callback.
type NameAware interface {
	SetBeanName(name string)
}

// ContainerAware receives the owning container, after NameAware.
type ContainerAware interface {
	SetContainer(c *Container)
}

// InitializingBean runs after all properties are set and before the bean is
// handed out.
type InitializingBean interface {
	Init() error
}

// DisposableBean runs during container shutdown, in reverse creation order.
type DisposableBean interface {
	Destroy() error
}
