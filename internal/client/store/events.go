package store

// EventKind names the mutation that produced an Event.
type EventKind string

const (
	EventLoaded           EventKind = "loaded"
	EventSaved            EventKind = "saved"
	EventReplaced         EventKind = "replaced"
	EventClientAdded      EventKind = "client_added"
	EventClientRenamed    EventKind = "client_renamed"
	EventClientDeleted    EventKind = "client_deleted"
	EventClientsReordered EventKind = "clients_reordered"
	EventTaskAdded        EventKind = "task_added"
	EventTaskUpdated      EventKind = "task_updated"
	EventTaskDeleted      EventKind = "task_deleted"
	EventTasksReordered   EventKind = "tasks_reordered"
)

// Event is delivered to subscribers after a change has been persisted.
// ClientID and TaskID are zero when not applicable.
type Event struct {
	Kind     EventKind
	ClientID int64
	TaskID   int64
}
