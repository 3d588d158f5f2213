package repository

import (
	"context"

	"github.com/noah-isme/dsa-enrollment-api/internal/models"
)

// ContentRepository serves the fixed copy of the informational pages.
type ContentRepository struct{}

// NewContentRepository constructs the repository.
func NewContentRepository() *ContentRepository {
	return &ContentRepository{}
}

// Navigation returns the site shell.
func (r *ContentRepository) Navigation(ctx context.Context) (models.Navigation, error) {
	return models.Navigation{
		SiteName: "Delhi Safety Academy",
		Routes: []models.Route{
			{Path: "/", Title: "Home"},
			{Path: "/apply", Title: "Apply Now"},
			{Path: "/payment", Title: "Payment"},
			{Path: "/about", Title: "About Us"},
			{Path: "/certification", Title: "Certification"},
			{Path: "/training-schedule", Title: "Training Schedule"},
		},
		Header: []models.NavLink{
			{Name: "Home", Href: "/"},
			{Name: "Apply Now", Href: "/apply"},
			{Name: "Payment", Href: "/payment"},
		},
		Footer: []models.NavLink{
			{Name: "About Us", Href: "/about"},
			{Name: "Certification", Href: "/certification"},
			{Name: "Training Schedule", Href: "/training-schedule"},
		},
		Contact: models.ContactInfo{
			Phone:   "+91 98765 43210",
			Email:   "info@delhisafetyacademy.com",
			Address: "123 Safety Plaza, Connaught Place, New Delhi - 110001",
		},
		Copyright: "© 2025 Delhi Safety Academy. All rights reserved.",
	}, nil
}

// Home returns the landing page copy. Featured courses come from the catalog.
func (r *ContentRepository) Home(ctx context.Context) (models.HomePage, error) {
	return models.HomePage{
		Headline: "Delhi Safety Academy",
		Tagline:  "Leading Safety Training Institute in Delhi",
		Intro:    "Empowering professionals with comprehensive safety education and internationally recognized certifications. Join thousands of successful safety professionals.",
		Stats: []models.Stat{
			{Number: "5000+", Label: "Students Trained"},
			{Number: "15+", Label: "Years Experience"},
			{Number: "100%", Label: "Placement Rate"},
			{Number: "50+", Label: "Industry Partners"},
		},
		Services: []models.Highlight{
			{Title: "Industrial Safety Training", Description: "Comprehensive safety training programs for industrial workers and supervisors."},
			{Title: "Fire Safety Courses", Description: "Fire prevention, evacuation procedures, and emergency response training."},
			{Title: "Safety Certification", Description: "Internationally recognized safety certifications and compliance programs."},
			{Title: "Workplace Safety", Description: "Workplace hazard identification and risk management training."},
		},
	}, nil
}

// About returns the institute profile.
func (r *ContentRepository) About(ctx context.Context) (models.AboutPage, error) {
	return models.AboutPage{
		Intro: "Leading the way in safety education since 2009, empowering professionals with world-class training and internationally recognized certifications.",
		Mission: models.Highlight{
			Title:       "Our Mission",
			Description: "To provide comprehensive, practical, and internationally recognized safety training that empowers professionals to create safer workplaces and protect lives.",
		},
		Vision: models.Highlight{
			Title:       "Our Vision",
			Description: "To be the premier safety training institute in India, recognized globally for producing competent safety professionals who contribute to building a safer world.",
		},
		Team: []models.TeamMember{
			{Name: "Dr. Rajesh Kumar", Position: "Director & Chief Safety Officer", Experience: "25+ Years", Qualification: "PhD in Industrial Safety, NEBOSH Diploma"},
			{Name: "Priya Sharma", Position: "Fire Safety Specialist", Experience: "15+ Years", Qualification: "NFPA Certified, M.Tech Fire Safety"},
			{Name: "Amit Singh", Position: "Construction Safety Expert", Experience: "20+ Years", Qualification: "OSHA Certified, B.Tech Civil Engineering"},
			{Name: "Sunita Verma", Position: "Environmental Safety Consultant", Experience: "18+ Years", Qualification: "ISO 14001 Lead Auditor, M.Sc Environmental Science"},
		},
		Achievements: []models.Stat{
			{Number: "5000+", Label: "Students Trained"},
			{Number: "15+", Label: "Years of Excellence"},
			{Number: "100%", Label: "Placement Rate"},
			{Number: "50+", Label: "Industry Partners"},
			{Number: "25+", Label: "Expert Faculty"},
			{Number: "95%", Label: "Student Satisfaction"},
		},
		Values: []models.Highlight{
			{Title: "Safety First", Description: "We prioritize safety in everything we do, ensuring our students learn the highest standards of workplace safety."},
			{Title: "Excellence", Description: "We strive for excellence in education, training methodologies, and student outcomes."},
			{Title: "Community", Description: "Building a strong community of safety professionals who support each other throughout their careers."},
			{Title: "Innovation", Description: "Continuously updating our curriculum and training methods to meet evolving industry needs."},
		},
	}, nil
}

// Certification returns the certification partners and process.
func (r *ContentRepository) Certification(ctx context.Context) (models.CertificationPage, error) {
	return models.CertificationPage{
		Intro: "Earn globally recognized safety certifications that open doors to career advancement and professional growth.",
		Bodies: []models.CertificationBody{
			{
				ID: "nebosh", Name: "NEBOSH", FullName: "National Examination Board in Occupational Safety and Health",
				Description: "Internationally recognized qualification in occupational health and safety.",
				Courses:     []string{"Industrial Safety Officer", "Safety Audit & Inspection"},
				Validity:    "Lifetime", Recognition: "Global",
				Benefits: []string{"Recognized in 130+ countries", "Career advancement opportunities", "Higher salary prospects", "Professional credibility"},
			},
			{
				ID: "nfpa", Name: "NFPA", FullName: "National Fire Protection Association",
				Description: "Leading authority on fire, electrical and related hazards.",
				Courses:     []string{"Fire Safety Specialist"},
				Validity:    "3 Years", Recognition: "International",
				Benefits: []string{"Fire safety expertise recognition", "Industry standard certification", "Emergency response qualification", "Professional development"},
			},
			{
				ID: "osha", Name: "OSHA", FullName: "Occupational Safety and Health Administration",
				Description: "US federal agency that enforces safety and health legislation.",
				Courses:     []string{"Construction Safety", "Workplace Safety Management"},
				Validity:    "3 Years", Recognition: "International",
				Benefits: []string{"Construction safety expertise", "Workplace hazard identification", "Compliance knowledge", "Risk management skills"},
			},
			{
				ID: "iso", Name: "ISO 14001", FullName: "International Organization for Standardization",
				Description: "Environmental management systems standard.",
				Courses:     []string{"Environmental Safety"},
				Validity:    "3 Years", Recognition: "Global",
				Benefits: []string{"Environmental management expertise", "Sustainability knowledge", "Audit capabilities", "Compliance assurance"},
			},
			{
				ID: "iosh", Name: "IOSH", FullName: "Institution of Occupational Safety and Health",
				Description: "Chartered body for health and safety professionals.",
				Courses:     []string{"Workplace Safety Management"},
				Validity:    "Lifetime", Recognition: "International",
				Benefits: []string{"Professional membership eligibility", "Leadership development", "Safety culture expertise", "Continuous professional development"},
			},
		},
		Process: []models.ProcessStep{
			{Step: 1, Title: "Course Enrollment", Description: "Enroll in your chosen safety course and complete the training program."},
			{Step: 2, Title: "Training Completion", Description: "Attend all classes, complete assignments, and participate in practical sessions."},
			{Step: 3, Title: "Assessment", Description: "Take the certification exam conducted by the respective certification body."},
			{Step: 4, Title: "Certificate Issuance", Description: "Receive your internationally recognized safety certification."},
		},
		Stats: []models.Stat{
			{Number: "5000+", Label: "Certified Professionals"},
			{Number: "95%", Label: "Pass Rate"},
			{Number: "5+", Label: "Certification Bodies"},
			{Number: "100%", Label: "Industry Recognition"},
		},
	}, nil
}
