package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/DinoRu/chapmoney/internal/infra/email"
	"github.com/DinoRu/chapmoney/internal/infra/mongodb"
	"github.com/DinoRu/chapmoney/internal/infra/onesignal"
	"github.com/DinoRu/chapmoney/internal/infra/rabbitmq"
	"github.com/DinoRu/chapmoney/internal/tasks"
)

// O worker drena a fila durável de notificações: push no OneSignal e
// email via SMTP. Cada tentativa vira um documento de auditoria no Mongo.
// Retry com orçamento fixo; esgotou, a mensagem vai para a dead-letter.

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	if err := godotenv.Load(); err != nil {
		log.Warn().Msg("Arquivo .env não encontrado, usando variáveis de ambiente")
	}

	mongoUser := os.Getenv("MONGO_USER")
	mongoPass := os.Getenv("MONGO_PASS")
	mongoHost := os.Getenv("MONGO_HOST")
	if mongoHost == "" {
		mongoHost = "localhost"
	}
	mongoURI := "mongodb://" + mongoUser + ":" + mongoPass + "@" + mongoHost + ":27017"

	clientOptions := options.Client().ApplyURI(mongoURI)
	mongoClient, err := mongo.Connect(clientOptions)
	if err != nil {
		log.Fatal().Err(err).Msg("Erro ao criar client MongoDB")
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			log.Error().Err(err).Msg("Erro ao desconectar Mongo")
		}
	}()

	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := mongoClient.Ping(pingCtx, nil); err != nil {
		cancel()
		log.Fatal().Err(err).Msg("Erro ao pingar MongoDB")
	}
	cancel()
	log.Info().Msg("✅ Conectado ao MongoDB!")

	deliveryLogRepo := mongodb.NewDeliveryLogRepository(mongoClient, "chapmoney_audit")

	pushClient := onesignal.NewClient(onesignal.ConfigFromEnv())
	mailer := email.NewMailer(email.ConfigFromEnv())

	rabbitUser := os.Getenv("RABBITMQ_USER")
	rabbitPass := os.Getenv("RABBITMQ_PASS")
	rabbitHost := os.Getenv("RABBITMQ_HOST")
	if rabbitHost == "" {
		rabbitHost = "localhost"
	}

	rabbitURL := "amqp://" + rabbitUser + ":" + rabbitPass + "@" + rabbitHost + ":5672/"
	conn, err := amqp.DialConfig(rabbitURL, amqp.Config{
		Properties: amqp.Table{
			"connection_name": "NotificationWorker_Consumer",
		},
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Erro ao conectar no RabbitMQ")
	}
	defer func() {
		if err := conn.Close(); err != nil {
			log.Error().Err(err).Msg("Erro ao fechar conexão RabbitMQ")
		}
	}()

	ch, err := conn.Channel()
	if err != nil {
		log.Fatal().Err(err).Msg("Erro ao abrir canal")
	}
	defer func() {
		if err := ch.Close(); err != nil {
			log.Error().Err(err).Msg("Erro ao fechar canal RabbitMQ")
		}
	}()

	// QoS (Prefetch Count = 1): o Rabbit manda 1 mensagem por vez e
	// espera o Ack. Evita buffer enchendo e entrega em lote perdida.
	if err := ch.Qos(1, 0, false); err != nil {
		log.Fatal().Err(err).Msg("Erro ao configurar QoS")
	}

	if err := ch.ExchangeDeclare(
		tasks.Exchange, // name
		"topic",        // type
		true,           // durable
		false,          // auto-deleted
		false,          // internal
		false,          // no-wait
		nil,            // arguments
	); err != nil {
		log.Fatal().Err(err).Msg("Erro ao declarar exchange")
	}

	q, err := ch.QueueDeclare(
		tasks.Queue, // name
		true,        // durable (sobrevive a restart do server)
		false,       // delete when unused
		false,       // exclusive
		false,       // no-wait
		nil,         // arguments
	)
	if err != nil {
		log.Fatal().Err(err).Msg("Erro ao declarar fila")
	}

	// Dead-letter: onde as mensagens que esgotaram o retry vão morar
	if _, err := ch.QueueDeclare(tasks.DeadLetterQueue, true, false, false, false, nil); err != nil {
		log.Fatal().Err(err).Msg("Erro ao declarar fila dead-letter")
	}

	// Bind: tudo que começar com "notify." cai na fila de notificações
	if err := ch.QueueBind(q.Name, "notify.#", tasks.Exchange, false, nil); err != nil {
		log.Fatal().Err(err).Msg("Erro ao fazer bind da fila")
	}

	msgs, err := ch.Consume(
		q.Name,                // queue
		"notification_worker", // consumer tag
		false,                 // auto-ack DESLIGADO: ack manual depois de entregar
		false,                 // exclusive
		false,                 // no-local
		false,                 // no-wait
		nil,                   // args
	)
	if err != nil {
		log.Fatal().Err(err).Msg("Erro ao registrar consumidor")
	}

	// Monitoramento de queda de conexão
	notifyClose := make(chan *amqp.Error)
	ch.NotifyClose(notifyClose)

	log.Info().Str("queue", q.Name).Msg(" [*] Worker iniciado. Aguardando tarefas...")

	worker := &notificationWorker{
		push:        pushClient,
		mailer:      mailer,
		deliveryLog: deliveryLogRepo,
		channel:     ch,
	}

	go func() {
		for {
			select {
			case err := <-notifyClose:
				if err != nil {
					// Worker cai para o Docker subir de novo
					log.Error().Err(err).Msg("🔴 Canal RabbitMQ fechado")
					os.Exit(1)
				}
				return
			case d, ok := <-msgs:
				if !ok {
					log.Error().Msg("🔴 Canal de mensagens fechado")
					os.Exit(1)
				}
				worker.handle(d)
			}
		}
	}()

	// Graceful Shutdown (bloqueia a main até receber sinal)
	stopChan := make(chan os.Signal, 1)
	signal.Notify(stopChan, os.Interrupt, syscall.SIGTERM)

	<-stopChan

	log.Info().Msg("Shutting down worker...")
}

// taskChannel e deliveryAuditor recortam só o que o handle usa dos
// colaboradores concretos (*amqp.Channel, repositório Mongo)
type taskChannel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

type deliveryAuditor interface {
	Save(ctx context.Context, log mongodb.DeliveryLog) error
}

type notificationWorker struct {
	push        *onesignal.Client
	mailer      *email.Mailer
	deliveryLog deliveryAuditor
	channel     taskChannel
}

// handle processa uma entrega: executa a tarefa, audita o resultado e
// decide entre Ack, republicação com retry ou dead-letter. A mensagem
// original é SEMPRE ack-ada — o retry é uma mensagem nova com o contador
// incrementado, então nada fica preso em redelivery infinito.
func (w *notificationWorker) handle(d amqp.Delivery) {
	attempt := rabbitmq.Attempt(d.Headers)
	log.Info().Str("routing_key", d.RoutingKey).Int("attempt", attempt).
		Msg(" [⬇️] Tarefa recebida")

	taskCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	taskErr := w.execute(taskCtx, d)
	cancel()

	outcome := mongodb.OutcomeDelivered
	errText := ""
	if taskErr != nil {
		errText = taskErr.Error()
		if rabbitmq.ShouldRetry(d.Headers) {
			outcome = mongodb.OutcomeRetried
		} else {
			outcome = mongodb.OutcomeDeadLettered
		}
	}

	logCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := w.deliveryLog.Save(logCtx, mongodb.DeliveryLog{
		RoutingKey: d.RoutingKey,
		Attempt:    attempt,
		Outcome:    outcome,
		Error:      errText,
	}); err != nil {
		log.Error().Err(err).Msg("Erro ao salvar auditoria no Mongo")
	}
	cancel()

	if taskErr == nil {
		if err := d.Ack(false); err != nil {
			log.Error().Err(err).Msg("Erro ao enviar Ack")
		}
		log.Info().Msg(" [✅] Tarefa entregue e Ack enviado")
		return
	}

	log.Error().Err(taskErr).Str("routing_key", d.RoutingKey).Int("attempt", attempt).
		Msg("Falha na entrega da notificação")

	switch outcome {
	case mongodb.OutcomeRetried:
		// Atraso fixo entre tentativas. Com prefetch 1 o sleep segura
		// só este worker.
		time.Sleep(tasks.RetryDelay)
		pubCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := w.channel.PublishWithContext(pubCtx, tasks.Exchange, d.RoutingKey, false, false, amqp.Publishing{
			ContentType:  "application/json",
			Body:         d.Body,
			DeliveryMode: amqp.Persistent,
			Headers:      rabbitmq.NextHeaders(d.Headers),
		})
		cancel()
		if err != nil {
			log.Error().Err(err).Msg("Erro ao republicar tarefa, devolvendo para a fila")
			if err := d.Nack(false, true); err != nil {
				log.Error().Err(err).Msg("Erro ao enviar Nack")
			}
			return
		}
	case mongodb.OutcomeDeadLettered:
		pubCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := w.channel.PublishWithContext(pubCtx, "", tasks.DeadLetterQueue, false, false, amqp.Publishing{
			ContentType:  "application/json",
			Body:         d.Body,
			DeliveryMode: amqp.Persistent,
			Headers:      rabbitmq.NextHeaders(d.Headers),
		})
		cancel()
		if err != nil {
			// Sem a cópia na dead-letter a tarefa sumiria de vez;
			// devolve a original para a fila e tenta na redelivery
			log.Error().Err(err).Msg("Erro ao publicar na dead-letter, devolvendo para a fila")
			if err := d.Nack(false, true); err != nil {
				log.Error().Err(err).Msg("Erro ao enviar Nack")
			}
			return
		}
		log.Error().Str("routing_key", d.RoutingKey).
			Msg("💀 Retry esgotado, tarefa dead-lettered")
	}

	if err := d.Ack(false); err != nil {
		log.Error().Err(err).Msg("Erro ao enviar Ack")
	}
}

func (w *notificationWorker) execute(ctx context.Context, d amqp.Delivery) error {
	switch d.RoutingKey {
	case tasks.RoutingPush:
		var task tasks.PushTask
		if err := json.Unmarshal(d.Body, &task); err != nil {
			return fmt.Errorf("JSON inválido: %w", err)
		}
		return w.push.Send(ctx, task)

	case tasks.RoutingEmailTransaction:
		var task tasks.TransactionEmailTask
		if err := json.Unmarshal(d.Body, &task); err != nil {
			return fmt.Errorf("JSON inválido: %w", err)
		}
		return w.mailer.SendTransactionAlert(task.Reference)

	case tasks.RoutingEmailResetLink:
		var task tasks.PasswordResetLinkTask
		if err := json.Unmarshal(d.Body, &task); err != nil {
			return fmt.Errorf("JSON inválido: %w", err)
		}
		return w.mailer.SendPasswordResetLink(task.Email, task.Link)

	case tasks.RoutingEmailResetOTP:
		var task tasks.PasswordResetOTPTask
		if err := json.Unmarshal(d.Body, &task); err != nil {
			return fmt.Errorf("JSON inválido: %w", err)
		}
		return w.mailer.SendPasswordResetOTP(task.Email, task.Code)
	}

	return fmt.Errorf("routing key desconhecida: %s", d.RoutingKey)
}
