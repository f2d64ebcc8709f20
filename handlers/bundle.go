package handlers

// HandlerBundle groups all endpoint handlers into one struct.
type HandlerBundle struct {
	Scheduling *SchedulingHandler
	Agenda     *AgendaHandler
	Storage    *StorageHandler
}
