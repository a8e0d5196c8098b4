package models

import (
	"reflect"
	"testing"
)

func TestSectionCompletion(t *testing.T) {
	s := &Section{Title: "Введение", Description: "  ", VideoURL: "https://cdn.example.com/v.mp4"}
	c := SectionCompletion(s)
	if c.Required != 3 || c.Filled() != 2 {
		t.Fatalf("ожидалось 2 из 3, получено %d из %d", c.Filled(), c.Required)
	}
	if !reflect.DeepEqual(c.Missing, []string{"description"}) {
		t.Fatalf("неверный список пропусков: %v", c.Missing)
	}

	s.Description = "<p>Текст</p>"
	if !SectionCompletion(s).IsComplete() {
		t.Fatalf("раздел со всеми полями должен быть готов")
	}
}

func TestCourseCompletion(t *testing.T) {
	price := 0.0
	c := &Course{
		Title:         "Курс",
		Description:   "Описание",
		CategoryID:    "it",
		SubCategoryID: "web",
		ImageURL:      "https://cdn.example.com/c.png",
		Price:         &price,
	}

	got := CourseCompletion(c, 0)
	if got.IsComplete() || !reflect.DeepEqual(got.Missing, []string{"sections"}) {
		t.Fatalf("без опубликованных разделов курс не готов: %v", got.Missing)
	}
	if got.Required != 7 {
		t.Fatalf("ожидалось 7 обязательных полей, получено %d", got.Required)
	}

	if !CourseCompletion(c, 1).IsComplete() {
		t.Fatalf("нулевая цена считается заполненной")
	}

	c.Price = nil
	c.ImageURL = ""
	got = CourseCompletion(c, 2)
	if !reflect.DeepEqual(got.Missing, []string{"imageUrl", "price"}) {
		t.Fatalf("неверный список пропусков: %v", got.Missing)
	}
}
