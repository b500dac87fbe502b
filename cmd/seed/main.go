package main

import (
	"errors"
	"log"
	"os"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yourusername/quizcheck-api/internal/config"
	"github.com/yourusername/quizcheck-api/internal/domain/entity"
	"github.com/yourusername/quizcheck-api/pkg/database"
)

// seedOption описывает вариант ответа демо-вопроса
type seedOption struct {
	text    string
	correct bool
}

// seedQuestion описывает демо-вопрос с вариантами
type seedQuestion struct {
	text    string
	qtype   string
	options []seedOption
}

// seedCategory описывает демо-категорию с вопросами
type seedCategory struct {
	name        string
	description string
	questions   []seedQuestion
}

var demoCategories = []seedCategory{
	{
		name:        "Python Programming",
		description: "Test your Python programming knowledge",
		questions: []seedQuestion{
			{
				text:  "What is the output of print(2 ** 3)?",
				qtype: entity.QuestionTypeSingle,
				options: []seedOption{
					{"6", false}, {"8", true}, {"9", false}, {"5", false},
				},
			},
			{
				text:  "Which of the following is NOT a valid Python data type?",
				qtype: entity.QuestionTypeSingle,
				options: []seedOption{
					{"int", false}, {"float", false}, {"char", true}, {"str", false},
				},
			},
			{
				text:  "What keyword is used to create a function in Python?",
				qtype: entity.QuestionTypeSingle,
				options: []seedOption{
					{"function", false}, {"def", true}, {"func", false}, {"define", false},
				},
			},
			{
				text:  "Which of the following are mutable data types in Python? (Select all that apply)",
				qtype: entity.QuestionTypeMultiple,
				options: []seedOption{
					{"List", true}, {"Tuple", false}, {"Dictionary", true}, {"String", false},
				},
			},
			{
				text:  "What is the correct way to create a list in Python?",
				qtype: entity.QuestionTypeSingle,
				options: []seedOption{
					{"list = (1, 2, 3)", false}, {"list = [1, 2, 3]", true},
					{"list = {1, 2, 3}", false}, {"list = <1, 2, 3>", false},
				},
			},
		},
	},
	{
		name:        "Web Development",
		description: "Questions about HTML, CSS, and JavaScript",
		questions: []seedQuestion{
			{
				text:  "What does HTML stand for?",
				qtype: entity.QuestionTypeSingle,
				options: []seedOption{
					{"Hyper Text Markup Language", true},
					{"High Tech Modern Language", false},
					{"Home Tool Markup Language", false},
					{"Hyperlinks and Text Markup Language", false},
				},
			},
			{
				text:  "Which CSS property is used to change text color?",
				qtype: entity.QuestionTypeSingle,
				options: []seedOption{
					{"text-color", false}, {"font-color", false}, {"color", true}, {"text-style", false},
				},
			},
			{
				text:  "What is the correct HTML tag for inserting a line break?",
				qtype: entity.QuestionTypeSingle,
				options: []seedOption{
					{"<break>", false}, {"<br>", true}, {"<lb>", false}, {"<newline>", false},
				},
			},
			{
				text:  "Which of these are JavaScript frameworks? (Select all that apply)",
				qtype: entity.QuestionTypeMultiple,
				options: []seedOption{
					{"React", true}, {"Django", false}, {"Vue.js", true}, {"Flask", false},
				},
			},
		},
	},
	{
		name:        "General Knowledge",
		description: "Fun general knowledge questions",
		questions: []seedQuestion{
			{
				text:  "What is the capital of France?",
				qtype: entity.QuestionTypeSingle,
				options: []seedOption{
					{"London", false}, {"Berlin", false}, {"Paris", true}, {"Madrid", false},
				},
			},
			{
				text:  "How many continents are there?",
				qtype: entity.QuestionTypeSingle,
				options: []seedOption{
					{"5", false}, {"6", false}, {"7", true}, {"8", false},
				},
			},
			{
				text:  "What is the largest planet in our solar system?",
				qtype: entity.QuestionTypeSingle,
				options: []seedOption{
					{"Earth", false}, {"Mars", false}, {"Jupiter", true}, {"Saturn", false},
				},
			},
		},
	},
}

func main() {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.NewPostgresDB(cfg.Database.PostgresConnectionString())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := database.MigrateDB(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	log.Println("Загрузка демо-данных...")

	for _, cat := range demoCategories {
		if err := seedCategoryTree(db, cat); err != nil {
			log.Fatalf("Failed to seed category %q: %v", cat.name, err)
		}
	}

	if err := seedUser(db, "demo", "demo@quiz.com", "demo1234", "user"); err != nil {
		log.Fatalf("Failed to seed demo user: %v", err)
	}
	if err := seedUser(db, "admin", "admin@quiz.com", "admin1234", "admin"); err != nil {
		log.Fatalf("Failed to seed admin user: %v", err)
	}

	log.Println("Демо-данные загружены.")
	log.Println("Вход: demo@quiz.com / demo1234, admin@quiz.com / admin1234")
}

// seedCategoryTree создает категорию с вопросами, пропуская уже существующие записи
func seedCategoryTree(db *gorm.DB, cat seedCategory) error {
	var category entity.Category
	err := db.Where("name = ?", cat.name).First(&category).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		category = entity.Category{Name: cat.name, Description: cat.description}
		if err := db.Create(&category).Error; err != nil {
			return err
		}
		log.Printf("  Категория создана: %s", cat.name)
	case err != nil:
		return err
	default:
		log.Printf("  Категория уже существует: %s", cat.name)
	}

	for _, q := range cat.questions {
		var count int64
		if err := db.Model(&entity.Question{}).
			Where("category_id = ? AND text = ?", category.ID, q.text).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			continue
		}

		question := entity.Question{
			CategoryID: category.ID,
			Text:       q.text,
			Type:       q.qtype,
		}
		for _, opt := range q.options {
			question.Options = append(question.Options, entity.Option{
				Text:      opt.text,
				IsCorrect: opt.correct,
			})
		}
		if err := db.Create(&question).Error; err != nil {
			return err
		}
		log.Printf("  Вопрос создан: %.50s", q.text)
	}
	return nil
}

// seedUser создает пользователя, если его еще нет.
// Пароль хеширует хук entity.User.BeforeSave.
func seedUser(db *gorm.DB, username, email, password, role string) error {
	var count int64
	if err := db.Model(&entity.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		log.Printf("  Пользователь уже существует: %s", email)
		return nil
	}

	user := entity.User{
		PublicID: uuid.NewString(),
		Username: username,
		Email:    email,
		Password: password,
		Role:     role,
	}
	if err := db.Create(&user).Error; err != nil {
		return err
	}
	log.Printf("  Пользователь создан: %s (роль %s)", email, role)
	return nil
}
