package repositories

import (
	"context"
	"fmt"
	"time"

	"jobportal/tasks-service/logging"
	"jobportal/tasks-service/models"

	"github.com/gocql/gocql"
)

// NotificationRepository stores the per-user notification feed in
// Cassandra, clustered by creation time so reads come back newest first.
type NotificationRepository struct {
	session *gocql.Session
}

func NewNotificationRepository(host string) (*NotificationRepository, error) {
	cluster := gocql.NewCluster(host)
	cluster.Keyspace = "system"
	session, err := cluster.CreateSession()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to cassandra: %w", err)
	}

	err = session.Query(
		`CREATE KEYSPACE IF NOT EXISTS notifications
         WITH replication = {
             'class': 'SimpleStrategy',
             'replication_factor': 1
         }`).Exec()
	if err != nil {
		session.Close()
		return nil, fmt.Errorf("failed to create keyspace: %w", err)
	}
	session.Close()

	cluster.Keyspace = "notifications"
	cluster.Consistency = gocql.One
	session, err = cluster.CreateSession()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to notifications keyspace: %w", err)
	}

	logging.Logger.Info("Event ID: CASSANDRA_CONNECTED, Description: Connected to Cassandra notifications keyspace.")
	return &NotificationRepository{session: session}, nil
}

func (nr *NotificationRepository) CloseSession() {
	nr.session.Close()
	logging.Logger.Info("Event ID: CASSANDRA_SESSION_CLOSED, Description: Cassandra session closed.")
}

func (nr *NotificationRepository) CreateTable() error {
	err := nr.session.Query(
		`CREATE TABLE IF NOT EXISTS notifications (
			id UUID,
			user_id TEXT,
			task_id TEXT,
			message TEXT,
			created_at TIMESTAMP,
			is_read BOOLEAN,
			PRIMARY KEY ((user_id), created_at, id)
		) WITH CLUSTERING ORDER BY (created_at DESC, id ASC)`).Exec()
	if err != nil {
		return fmt.Errorf("failed to create notifications table: %w", err)
	}
	return nil
}

func (nr *NotificationRepository) Create(ctx context.Context, notification *models.Notification) error {
	if notification.ID == "" {
		notification.ID = gocql.TimeUUID().String()
	}

	err := nr.session.Query(
		`INSERT INTO notifications (id, user_id, task_id, message, created_at, is_read)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		notification.ID, notification.UserID, notification.TaskID,
		notification.Message, notification.CreatedAt, notification.IsRead,
	).WithContext(ctx).Exec()
	if err != nil {
		return fmt.Errorf("failed to insert notification: %w", err)
	}
	return nil
}

func (nr *NotificationRepository) GetByUser(ctx context.Context, userID string) ([]models.Notification, error) {
	query := `SELECT id, user_id, task_id, message, created_at, is_read
			  FROM notifications WHERE user_id = ?`

	iter := nr.session.Query(query, userID).WithContext(ctx).Iter()
	var notifications []models.Notification
	var notification models.Notification

	for iter.Scan(&notification.ID, &notification.UserID, &notification.TaskID,
		&notification.Message, &notification.CreatedAt, &notification.IsRead) {
		notifications = append(notifications, notification)
	}
	if err := iter.Close(); err != nil {
		return nil, fmt.Errorf("failed to read notifications: %w", err)
	}

	return notifications, nil
}

func (nr *NotificationRepository) MarkAsRead(ctx context.Context, userID, notificationID string, createdAt time.Time) error {
	id, err := gocql.ParseUUID(notificationID)
	if err != nil {
		return &models.ValidationError{Field: "id", Reason: "invalid notification id format"}
	}

	query := `UPDATE notifications SET is_read = true WHERE user_id = ? AND created_at = ? AND id = ?`
	if err := nr.session.Query(query, userID, createdAt, id).WithContext(ctx).Exec(); err != nil {
		return fmt.Errorf("failed to mark notification as read: %w", err)
	}
	return nil
}
